package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/beangraph/internal/config"
	"github.com/mvp-joe/beangraph/internal/modules"
	"github.com/mvp-joe/beangraph/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for CLI commands:
// - executeIndex writes all output files for a settings.gradle repository
// - executeIndex honors the module allow-list and the module file
// - executeIndex fails with an I/O exit code when the module file is missing
// - executeModules lists modules and roots; executeWhich prints the owning module
// - executeStatus prints the recorded summary, and fails without an index
// - executeClean removes the output directory and refuses to remove the repo
// - exitCode maps path errors to 2 and everything else to 1
// - formatNumber adds thousand separators

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func setupRepo(t *testing.T) string {
	t.Helper()
	repo := t.TempDir()

	writeFile(t, filepath.Join(repo, "settings.gradle"), "include ':api', ':impl', ':ai-indexer'\n")
	writeFile(t, filepath.Join(repo, "api", "src", "main", "java", "shop", "Checkout.java"), `package shop;

@javax.ejb.Remote
public interface Checkout {}
`)
	writeFile(t, filepath.Join(repo, "impl", "src", "main", "java", "shop", "CheckoutBean.java"), `package shop;

@Singleton
public class CheckoutBean implements Checkout {
    @PersistenceContext
    EntityManager em;
}
`)
	writeFile(t, filepath.Join(repo, "impl", "src", "test", "java", "shop", "CheckoutBeanTest.java"), `package shop;

public class CheckoutBeanTest {
    @Inject
    Checkout checkout;
}
`)
	writeFile(t, filepath.Join(repo, "ai-indexer", "src", "main", "java", "Tool.java"), "public class Tool {}\n")
	return repo
}

func testConfig(t *testing.T, repo string) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfigFromDir(repo)
	require.NoError(t, err)
	return cfg
}

func TestExecuteIndex(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	cfg := testConfig(t, repo)

	m, err := executeIndex(context.Background(), repo, cfg, NewCLIProgressReporter(true))
	require.NoError(t, err)

	outDir := filepath.Join(repo, ".repo-ai")
	for _, name := range []string{
		"types.api.jsonl", "inject.api.jsonl", "ejb.api.jsonl",
		"types.impl.jsonl", "inject.impl.jsonl", "ejb.impl.jsonl",
		storage.TypesIndexFileName, storage.EJBIndexFileName, storage.IndexFileName,
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outDir, "types.ai-indexer.jsonl"))

	assert.Len(t, m.Modules, 2)
	assert.Equal(t, 3, m.Summary.TotalTypes, "test sources are included by default")
	assert.Equal(t, 2, m.Summary.TotalInjects)
	assert.Equal(t, 1, m.Summary.TotalEJB)
	assert.Equal(t, 0, m.Summary.ParseWarnings)
	assert.Equal(t, []string{"api", "impl"}, m.ModuleDeps.Order)

	ejb, err := os.ReadFile(filepath.Join(outDir, "ejb.api.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, `{"iface":"t:shop.Checkout","local":false,"remote":true,"impls":["t:shop.CheckoutBean"]}`+"\n", string(ejb))
}

func TestExecuteIndex_ModuleSelection(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	writeFile(t, filepath.Join(repo, "mods.txt"), "# only the api\napi\n")

	cfg := testConfig(t, repo)
	cfg.Modules.File = "mods.txt"
	cfg.Scan.IncludeTests = false
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")

	m, err := executeIndex(context.Background(), repo, cfg, NewCLIProgressReporter(true))
	require.NoError(t, err)
	require.Len(t, m.Modules, 1)
	assert.Equal(t, "api", m.Modules[0].ID)
	assert.Equal(t, 1, m.Summary.TotalTypes)
	assert.Equal(t, 0, m.Summary.TotalEJB, "no bean implements the interface in scope")
}

func TestExecuteIndex_MissingModuleFile(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	cfg := testConfig(t, repo)
	cfg.Modules.File = "nope.txt"

	_, err := executeIndex(context.Background(), repo, cfg, NewCLIProgressReporter(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, modules.ErrModuleFileNotFound)
	assert.Equal(t, exitIO, exitCode(err))
}

func TestExecuteModules(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	cfg := testConfig(t, repo)

	var buf bytes.Buffer
	require.NoError(t, executeModules(context.Background(), &buf, repo, cfg))

	out := buf.String()
	assert.Contains(t, out, "Modules (2):")
	assert.Contains(t, out, "  api  api\n")
	assert.Contains(t, out, "    impl/src/main/java\n")
	assert.Contains(t, out, "    impl/src/test/java\n")
	assert.NotContains(t, out, "ai-indexer")

	buf.Reset()
	file := filepath.Join(repo, "impl", "src", "main", "java", "shop", "CheckoutBean.java")
	require.NoError(t, executeWhich(&buf, repo, cfg, file))
	assert.Equal(t, "impl\n", buf.String())
}

func TestExecuteStatus(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	cfg := testConfig(t, repo)
	outDir := cfg.OutputDir(repo)

	err := executeStatus(&bytes.Buffer{}, outDir)
	assert.ErrorIs(t, err, storage.ErrNoIndex)

	_, err = executeIndex(context.Background(), repo, cfg, NewCLIProgressReporter(true))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, executeStatus(&buf, outDir))
	out := buf.String()
	assert.Contains(t, out, "Schema:    "+storage.SchemaVersion)
	assert.Contains(t, out, "Modules (2):")
	assert.Contains(t, out, "api → impl")
}

func TestExecuteClean(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	outDir := filepath.Join(repo, ".repo-ai")
	writeFile(t, filepath.Join(outDir, "index.json"), "{}")

	require.NoError(t, executeClean(repo, outDir, true))
	assert.NoDirExists(t, outDir)

	// Already gone is fine
	require.NoError(t, executeClean(repo, outDir, true))

	err := executeClean(repo, repo, true)
	assert.ErrorIs(t, err, errUnsafeClean)
	err = executeClean(repo, filepath.Dir(repo), true)
	assert.ErrorIs(t, err, errUnsafeClean)
	assert.DirExists(t, repo)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	_, statErr := os.Stat(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, statErr)

	assert.Equal(t, exitIO, exitCode(fmt.Errorf("failed to write graph: %w", statErr)))
	assert.Equal(t, exitIO, exitCode(fmt.Errorf("x: %w", modules.ErrModuleFileNotFound)))
	assert.Equal(t, exitFailure, exitCode(errors.New("invalid configuration")))
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		number   int
		expected string
	}{
		{"single digit", 5, "5"},
		{"triple digit", 999, "999"},
		{"thousands", 1234, "1,234"},
		{"millions", 1234567, "1,234,567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, formatNumber(tt.number))
		})
	}
}
