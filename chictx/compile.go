package chictx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chigraph/chigraph/cache"
	"github.com/chigraph/chigraph/diag"
	"github.com/chigraph/chigraph/graphmod"
	"github.com/chigraph/chigraph/internal/workspace"
	"github.com/chigraph/chigraph/ir"
	"github.com/chigraph/chigraph/irgen"
	"github.com/chigraph/chigraph/validate"
)

// CompileOptions configures CompileModule, per spec §4.D's
// "compileModule(fullName, {debug, link})".
type CompileOptions struct {
	// Debug is accepted but not read by CompileModule:
	// irgen.CompileFunction always attaches a debug-info subprogram and
	// per-node debug locations, whatever this field says.
	Debug bool
	// Link controls whether dependency modules are linked into the
	// result or left as a record of having been compiled.
	Link bool
}

// CompileResult is CompileModule's success payload. Module is the emitted
// (and, if requested, linked) in-memory IR. Bitcode is this package's
// cacheable on-disk artifact: since there is no real LLVM backend behind
// this module (out of scope per spec §1 — "the LLVM library" is an
// external collaborator never vendored here), Bitcode is the deterministic
// textual ir.Dump of every emitted function, concatenated — a stand-in
// artifact that is at least reproducible and diffable, in place of actual
// bitcode bytes. CacheHit reports whether Bitcode came from the cache
// rather than from a fresh compile of this call.
type CompileResult struct {
	Module   *ir.Module
	Bitcode  []byte
	CacheHit bool
}

// CompileModule loads fullName if needed, compiles every function in it
// (skipping recompilation when a cache entry is still fresh relative to
// the source file and every transitive dependency), and recursively
// compiles and links its dependencies.
func (ctx *Context) CompileModule(goCtx context.Context, fullName string, opts CompileOptions) (*CompileResult, *diag.Record) {
	loadSpan := ctx.tracer.StartSpan(goCtx, irgen.PhaseContextLoad, fullName, nil)
	rec := ctx.LoadModule(goCtx, fullName)
	ctx.tracer.EndSpan(goCtx, loadSpan, recErr(rec))
	if !rec.Success {
		return nil, rec
	}

	m, mrec := ctx.ModuleByName(goCtx, fullName)
	rec.Merge(mrec)
	if m == nil {
		return nil, rec
	}

	newest := ctx.sourceModTime(fullName)
	depResults := make(map[string]*CompileResult, len(m.Dependencies()))
	for _, dep := range m.Dependencies() {
		depRes, depRec := ctx.CompileModule(goCtx, dep, opts)
		rec.Merge(depRec)
		if depRes == nil {
			continue
		}
		depResults[dep] = depRes
		if t := ctx.cacheModTime(goCtx, dep); t.After(newest) {
			newest = t
		}
	}
	if !rec.Success {
		return nil, rec
	}

	gm, isGraphModule := m.(*graphmod.Module)

	if isGraphModule && ctx.cache != nil {
		if entry, err := ctx.cache.Retrieve(goCtx, fullName, newest); err == nil && entry != nil {
			rec.Add("ICacheHit", fmt.Sprintf("chictx: reused cached bitcode for %s", fullName), nil)
			ctx.logger.Debugf("cache hit for %s (cached at %s)", fullName, entry.ModTime)
			out := ctx.linkInto(ir.NewModule(fullName), opts, depResults)
			return &CompileResult{Module: out, Bitcode: entry.Bitcode, CacheHit: true}, rec
		}
	}

	out := ir.NewModule(fullName)
	if isGraphModule {
		for _, fn := range gm.Functions() {
			target := fullName + ":" + fn.Name

			validateSpan := ctx.tracer.StartSpan(goCtx, irgen.PhaseValidate, target, loadSpan)
			validRec := validate.Function(fn)
			ctx.tracer.EndSpan(goCtx, validateSpan, recErr(validRec))
			rec.Merge(validRec)
			if !validRec.Success {
				continue
			}

			compileSpan := ctx.tracer.StartSpan(goCtx, irgen.PhaseFunctionCompile, target, loadSpan)
			res := irgen.CompileFunction(fullName, fn)
			ctx.tracer.EndSpan(goCtx, compileSpan, recErr(res.Record))
			rec.Merge(res.Record)
			if res.Function != nil {
				out.AddFunction(res.Function)
			}
		}
	}
	rec.Merge(m.EmitIntoLLVMModule(out))
	out = ctx.linkInto(out, opts, depResults)

	dump := dumpModule(out)
	if isGraphModule && ctx.cache != nil && rec.Success {
		if err := ctx.cache.Save(goCtx, &cache.Entry{ModuleFullName: fullName, Bitcode: dump, ModTime: time.Now()}); err != nil {
			rec.Add("WCacheErr", fmt.Sprintf("chictx: failed to cache %s: %v", fullName, err), nil)
		}
	}

	return &CompileResult{Module: out, Bitcode: dump}, rec
}

func (ctx *Context) linkInto(out *ir.Module, opts CompileOptions, deps map[string]*CompileResult) *ir.Module {
	if !opts.Link {
		return out
	}
	for _, dep := range deps {
		if dep.Module != nil {
			out.Link(dep.Module)
		}
	}
	return out
}

func (ctx *Context) sourceModTime(fullName string) time.Time {
	info, err := os.Stat(workspace.SourcePath(ctx.workspaceRoot, fullName))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// cacheModTime peeks at a dependency's cache entry's timestamp, using the
// zero time as mustBeNewerThan since Store has no plain "peek" method and
// any real cache entry's ModTime is after the zero time.
func (ctx *Context) cacheModTime(goCtx context.Context, fullName string) time.Time {
	if ctx.cache == nil {
		return time.Time{}
	}
	entry, err := ctx.cache.Retrieve(goCtx, fullName, time.Time{})
	if err != nil || entry == nil {
		return time.Time{}
	}
	return entry.ModTime
}

// recErr turns a failed Record into a plain error for Tracer.EndSpan, which
// (unlike the rest of this package) reports outcomes the error way since
// irgen.Span.Err is a plain Go error, not a *diag.Record.
func recErr(rec *diag.Record) error {
	if rec.Success {
		return nil
	}
	return errors.New(rec.String())
}

func dumpModule(m *ir.Module) []byte {
	var out []byte
	for _, fn := range m.Functions {
		out = append(out, []byte(ir.Dump(fn))...)
	}
	return out
}
