package graph

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvp-joe/beangraph/internal/modules"
	"github.com/mvp-joe/beangraph/internal/scan"
	"github.com/mvp-joe/beangraph/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Builder:
// - A full pass over a two-module repo infers bindings across modules
// - A broken file adds a warning while its module's other files are kept
// - Two builds of the same tree produce identical graphs
// - Locate and scan failures are wrapped and returned
// - Progress reporter sees locate, scan and assembly events

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func repoFixture(t *testing.T) *modules.Layout {
	t.Helper()
	repo := t.TempDir()

	api := filepath.Join(repo, "api", "src", "main", "java", "shop")
	writeFile(t, filepath.Join(api, "OrderService.java"), `package shop;

import javax.ejb.Local;

@Local
public interface OrderService {
    void place();
}
`)

	impl := filepath.Join(repo, "impl", "src", "main", "java", "shop", "impl")
	writeFile(t, filepath.Join(impl, "OrderBean.java"), `package shop.impl;

import javax.ejb.EJB;
import javax.ejb.Stateless;
import javax.inject.Inject;
import shop.OrderService;

@Stateless
public class OrderBean implements OrderService {
    @EJB
    private Inventory inventory;

    @Inject
    void configure(Pricing pricing, Clock clock) {}

    public void place() {}
}
`)
	writeFile(t, filepath.Join(impl, "Inventory.java"), "package shop.impl;\n\npublic class Inventory {}\n")
	writeFile(t, filepath.Join(impl, "Broken.java"), "package shop.impl;\n\npublic class Broken {\n  private int = ;\n  void x( {\n}\n")

	layout, err := modules.NewLayout(repo, map[string]string{"api": "api", "impl": "impl", "docs": "docs"})
	require.NoError(t, err)
	return layout
}

func newTestBuilder(t *testing.T, layout *modules.Layout, opts ...BuilderOption) *Builder {
	t.Helper()
	locator, err := modules.NewLocator(layout)
	require.NoError(t, err)
	scanner, err := scan.New(layout.RepoRoot(), scan.WithWorkers(4))
	require.NoError(t, err)
	return NewBuilder(locator, scanner, opts...)
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	g, err := newTestBuilder(t, repoFixture(t)).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, g.Files)
	assert.Equal(t, 1, g.Warnings)
	require.Contains(t, g.Modules, "docs")

	require.Len(t, g.Modules["api"].Bindings, 1)
	binding := g.Modules["api"].Bindings[0]
	assert.Equal(t, "t:shop.OrderService", binding.Iface)
	assert.True(t, binding.Local)
	assert.False(t, binding.Remote)
	assert.Equal(t, []string{"t:shop.impl.OrderBean"}, binding.Impls)
	assert.Equal(t, "api", g.EJBIndex["t:shop.OrderService"])

	var ids []string
	for _, tr := range g.Modules["impl"].Types {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []string{"t:shop.impl.Inventory", "t:shop.impl.OrderBean"}, ids)

	bean := g.Modules["impl"].Types[1]
	assert.Equal(t, []string{"t:shop.OrderService"}, bean.EJBLocal)
	assert.Equal(t, []string{"f:shop.impl.OrderBean#inventory"}, bean.Injects)
	assert.Equal(t, []string{
		"f:shop.impl.OrderBean#inventory",
		"m:shop.impl.OrderBean#configure(Pricing,Clock)",
	}, bean.InjectMembers)

	injections := g.Modules["impl"].Injections
	require.Len(t, injections, 3)
	assert.Equal(t, "t:shop.impl.Inventory", injections[0].Type)

	assert.Equal(t, []string{"api"}, g.Deps.Edges["impl"])
	assert.Equal(t, []string{"api", "docs", "impl"}, g.Deps.Order)
}

func TestBuilder_Deterministic(t *testing.T) {
	t.Parallel()

	layout := repoFixture(t)
	first, err := newTestBuilder(t, layout).Build(context.Background())
	require.NoError(t, err)
	second, err := newTestBuilder(t, layout).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

type failingLocator struct{ err error }

func (f failingLocator) Locate(context.Context) (*modules.SourceSet, error) { return nil, f.err }

type failingScanner struct{ err error }

func (f failingScanner) Scan(context.Context, map[string][]string, *symbols.Builder) (*scan.Result, error) {
	return nil, f.err
}

func TestBuilder_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := NewBuilder(failingLocator{err: boom}, failingScanner{}).Build(context.Background())
	assert.ErrorIs(t, err, boom)

	layout := repoFixture(t)
	locator, err := modules.NewLocator(layout)
	require.NoError(t, err)
	_, err = NewBuilder(locator, failingScanner{err: os.ErrPermission}).Build(context.Background())
	assert.ErrorIs(t, err, os.ErrPermission)
}

type recordingProgress struct {
	modules, roots int
	scanned        int
	types          int
	bindings       int
}

func (r *recordingProgress) OnScanStart(int)                        {}
func (r *recordingProgress) OnFileScanned(string)                   { r.scanned++ }
func (r *recordingProgress) OnScanComplete(int, int, time.Duration) {}
func (r *recordingProgress) OnLocateComplete(m, roots int)          { r.modules, r.roots = m, roots }
func (r *recordingProgress) OnGraphBuildingComplete(types, _, bindings int, _ time.Duration) {
	r.types, r.bindings = types, bindings
}

func TestBuilder_Progress(t *testing.T) {
	t.Parallel()

	layout := repoFixture(t)
	progress := &recordingProgress{}

	locator, err := modules.NewLocator(layout)
	require.NoError(t, err)
	scanner, err := scan.New(layout.RepoRoot(), scan.WithProgress(progress))
	require.NoError(t, err)

	_, err = NewBuilder(locator, scanner, WithProgress(progress)).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, progress.modules)
	assert.Equal(t, 2, progress.roots)
	assert.Equal(t, 4, progress.scanned)
	assert.Equal(t, 3, progress.types)
	assert.Equal(t, 1, progress.bindings)
}
