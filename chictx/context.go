package chictx

import (
	"context"
	"os"
	"sync"

	cbuiltin "github.com/chigraph/chigraph/builtin/c"
	"github.com/chigraph/chigraph/builtin/lang"
	"github.com/chigraph/chigraph/cache"
	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/graphmod"
	"github.com/chigraph/chigraph/internal/clog"
	"github.com/chigraph/chigraph/internal/workspace"
	"github.com/chigraph/chigraph/irgen"
	"github.com/chigraph/chigraph/jsonmod"
	"github.com/chigraph/chigraph/model"

	"golang.org/x/sync/errgroup"
)

// Context is spec §4.D's module registry: a workspace root, the set of
// modules loaded into it so far, a bitcode Cache, and a logger. It attaches
// the two built-in modules on construction and is otherwise populated
// lazily through LoadModule.
type Context struct {
	mu sync.Mutex

	workspaceRoot string
	modules       map[string]model.Module
	cache         cache.Store
	logger        clog.Logger
	policy        *LoadPolicy
	tracer        *irgen.Tracer
}

// New returns a Context rooted at workspaceRoot with the built-in "lang"
// and "c" modules already attached, per spec §4.D ("creation attaches the
// two built-ins").
func New(workspaceRoot string, store cache.Store, logger clog.Logger) *Context {
	if logger == nil {
		logger = clog.NoOp()
	}
	ctx := &Context{
		workspaceRoot: workspaceRoot,
		modules:       make(map[string]model.Module),
		cache:         store,
		logger:        logger,
		policy:        DefaultLoadPolicy(),
		tracer:        irgen.NewTracer(),
	}
	ctx.modules[lang.FullName] = lang.New()
	ctx.modules[cbuiltin.FullName] = cbuiltin.New()
	return ctx
}

// Tracer returns this Context's Tracer, which CompileModule spans across
// its context-load, validate, and per-function compile phases. Callers add
// hooks to it (ctx.Tracer().AddHook(...)) before calling CompileModule to
// observe those spans.
func (ctx *Context) Tracer() *irgen.Tracer {
	return ctx.tracer
}

// SetLoadPolicy overrides the retry policy LoadModule uses for source
// reads; tests use this to shrink delays to near zero.
func (ctx *Context) SetLoadPolicy(p *LoadPolicy) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.policy = p
}

// LoadModule loads fullName and, recursively, everything it depends on.
// Already-loaded modules (built-ins, or anything a prior call already
// registered) are a no-op, which is what makes a dependency cycle safe:
// the second time a cycle's participant is requested, this check stops the
// recursion. Sibling dependencies are loaded concurrently via errgroup and
// always joined before returning, per spec §5.
func (ctx *Context) LoadModule(goCtx context.Context, fullName string) *diag.Record {
	if ctx.isLoaded(fullName) {
		return diag.New()
	}

	rec := diag.New()
	m, loadRec := ctx.locateAndParse(goCtx, fullName)
	rec.Merge(loadRec)
	if m == nil {
		return rec
	}

	if !ctx.register(fullName, m) {
		// Another goroutine won the race to register fullName first; its
		// load is equally valid, so just report success.
		return rec
	}

	deps := m.Dependencies()
	if len(deps) == 0 {
		return rec
	}

	g, gctx := errgroup.WithContext(goCtx)
	depRecs := make([]*diag.Record, len(deps))
	for i, dep := range deps {
		i, dep := i, dep
		g.Go(func() error {
			depRecs[i] = ctx.LoadModule(gctx, dep)
			return nil
		})
	}
	_ = g.Wait() // errgroup's own goroutines never return a Go error; failures live in depRecs.

	for _, r := range depRecs {
		rec.Merge(r)
	}
	return rec
}

func (ctx *Context) isLoaded(fullName string) bool {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	_, ok := ctx.modules[fullName]
	return ok
}

// register inserts m under fullName iff nothing is registered there yet,
// reporting whether it won that race.
func (ctx *Context) register(fullName string, m model.Module) bool {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if _, ok := ctx.modules[fullName]; ok {
		return false
	}
	ctx.modules[fullName] = m
	return true
}

// locateAndParse finds fullName's .chimod source under workspaceRoot/src,
// reads it (retrying transient failures per ctx.policy), validates and
// decodes it, and converts it into a *graphmod.Module. Built-in names never
// reach this path since LoadModule's isLoaded check already short-circuits
// on them.
func (ctx *Context) locateAndParse(goCtx context.Context, fullName string) (model.Module, *diag.Record) {
	rec := diag.New()
	path := workspace.SourcePath(ctx.workspaceRoot, fullName)

	ctx.mu.Lock()
	policy := ctx.policy
	ctx.mu.Unlock()

	raw, err := policy.withRetry(goCtx, func() ([]byte, error) {
		return os.ReadFile(path)
	})
	if err != nil {
		rec.AddErrorf("ENotFound", "chictx: module %q: %v", fullName, err)
		return nil, rec
	}

	if validateRec := jsonmod.Validate(raw); !validateRec.Success {
		rec.Merge(validateRec)
		return nil, rec
	}

	doc, err := jsonmod.Decode(raw)
	if err != nil {
		rec.AddErrorf("EParseErr", "chictx: module %q: %v", fullName, err)
		return nil, rec
	}

	ctx.logger.Infof("loaded module %s from %s", fullName, path)

	gm, convRec := graphmod.FromDocument(fullName, doc, ctx.TypeByQualifiedName, ctx.resolveNodeType)
	rec.Merge(convRec)
	if !rec.Success {
		return nil, rec
	}
	return gm, rec
}

// UnloadModule removes fullName from the registry, refusing while any
// other loaded module still lists it as a dependency.
func (ctx *Context) UnloadModule(fullName string) *diag.Record {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	rec := diag.New()
	if _, ok := ctx.modules[fullName]; !ok {
		rec.AddErrorf("ENotFound", "chictx: module %q is not loaded", fullName)
		return rec
	}

	for name, m := range ctx.modules {
		if name == fullName {
			continue
		}
		for _, dep := range m.Dependencies() {
			if dep == fullName {
				rec.AddErrorf("EInUse", "chictx: module %q is still required by %q", fullName, name)
				return rec
			}
		}
	}

	delete(ctx.modules, fullName)
	return rec
}

// ModuleByName looks up an already-loaded module, loading it first (and,
// transitively, its dependencies) if it isn't registered yet.
func (ctx *Context) ModuleByName(goCtx context.Context, fullName string) (model.Module, *diag.Record) {
	ctx.mu.Lock()
	m, ok := ctx.modules[fullName]
	ctx.mu.Unlock()
	if ok {
		return m, diag.New()
	}

	rec := ctx.LoadModule(goCtx, fullName)
	if !rec.Success {
		return nil, rec
	}

	ctx.mu.Lock()
	m, ok = ctx.modules[fullName]
	ctx.mu.Unlock()
	if !ok {
		rec.AddErrorf("ENotFound", "chictx: module %q not found", fullName)
		return nil, rec
	}
	return m, rec
}

// TypeByQualifiedName resolves a "<moduleFullName>:<name>" reference,
// loading the owning module on demand. Its signature matches
// graphmod.TypeResolver so it can be passed as a method value directly.
func (ctx *Context) TypeByQualifiedName(qualified string) (model.DataType, *diag.Record) {
	dt, err := model.ParseQualifiedType(qualified)
	if err != nil {
		rec := diag.New()
		rec.AddErrorf("EParseErr", "chictx: %v", err)
		return model.DataType{}, rec
	}

	m, rec := ctx.ModuleByName(context.Background(), dt.OwningModule)
	if m == nil {
		return model.DataType{}, rec
	}

	t, typeRec := m.ResolveType(dt.UnqualifiedName)
	rec.Merge(typeRec)
	return t, rec
}

// NodeType resolves a node type by its owning module and unqualified name,
// constructing it (or looking it up, for the built-ins) with jsonData as
// its per-instance payload.
func (ctx *Context) NodeType(goCtx context.Context, moduleName, nodeName string, jsonData any) (*model.NodeType, *diag.Record) {
	m, rec := ctx.ModuleByName(goCtx, moduleName)
	if m == nil {
		return nil, rec
	}
	nt, typeRec := m.CreateNodeType(nodeName, jsonData)
	rec.Merge(typeRec)
	return nt, rec
}
