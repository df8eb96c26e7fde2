package evaluator

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mini-maxit/modelboard/pkg/constants"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eval.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDataset_SplitsLabels(t *testing.T) {
	ds, err := loadDataset(writeDataset(t, "f1,f2,target\n0.5,x,1.0\n1.5,y,0\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"f1", "f2"}, ds.header)
	assert.Equal(t, [][]string{{"0.5", "x"}, {"1.5", "y"}}, ds.features)
	assert.Equal(t, []string{"1", "0"}, ds.labels)

	out := filepath.Join(t.TempDir(), "features.csv")
	require.NoError(t, ds.writeFeatures(out))
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "f1,f2\n0.5,x\n1.5,y\n", string(written))
}

func TestLoadDataset_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "header only", content: "f1,label\n"},
		{name: "single column", content: "label\na\n"},
		{name: "ragged row", content: "f1,label\n1,a\n2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadDataset(writeDataset(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{in: float64(1), want: "1"},
		{in: "1.0", want: "1"},
		{in: " 2 ", want: "2"},
		{in: 0.25, want: "0.25"},
		{in: "setosa", want: "setosa"},
		{in: "NaN", want: "NaN"},
		{in: true, want: "true"},
		{in: nil, want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeLabel(tt.in), "%v", tt.in)
	}
}

func TestParseHarnessResult(t *testing.T) {
	stdout := []byte("noise\nMODELBOARD_RESULT tok {\"predictions\":[1,\"b\"]}\n")

	predictions, err := parseHarnessResult(stdout, "tok")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "b"}, predictions)

	_, err = parseHarnessResult(stdout, "other")
	require.Error(t, err)

	doubled := append(append([]byte{}, stdout...), stdout...)
	_, err = parseHarnessResult(doubled, "tok")
	require.Error(t, err)
}

func TestHarnessAgreesWithHost(t *testing.T) {
	harness := string(harnessSource)

	for name, code := range map[string]int{
		"EXIT_SYNTAX":           constants.ExitCodeSyntaxError,
		"EXIT_MISSING_ENTRY":    constants.ExitCodeMissingEntry,
		"EXIT_ENTRY_FAILED":     constants.ExitCodeEntryPointFailed,
		"EXIT_NOT_A_CLASSIFIER": constants.ExitCodeNotAClassifier,
		"EXIT_DATASET_MISMATCH": constants.ExitCodeDatasetMismatch,
	} {
		assert.Contains(t, harness, fmt.Sprintf("%s = %d\n", name, code))
	}
	assert.Contains(t, harness, fmt.Sprintf("TOKEN_ENV = %q", constants.SandboxRunTokenEnv))
	assert.Contains(t, harness, fmt.Sprintf("RESULT_PREFIX = %q", constants.SandboxResultPrefix))
	assert.Contains(t, harness, fmt.Sprintf("FEATURES_FILE = %q", constants.SandboxFeaturesFileName))
	assert.Contains(t, harness, fmt.Sprintf("SOURCE_FILE = %q", constants.SandboxSourceFileName))
	assert.Contains(t, harness, fmt.Sprintf("ENTRY_POINT = %q", constants.EntryPointName))
}
