package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSimplifyHooks{}
	s.OnCandidatesSelected(ctx, 12, time.Millisecond)
	s.OnNodeMerged(ctx, 1001)
	s.OnNodeSkipped(ctx, 1002, "MERGE_CONFLICT")
	s.OnRunComplete(ctx, 11, 1, time.Second, nil)

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "base.json")
	p.OnLoadComplete(ctx, "base.json", 100, 240, time.Second, nil)
	p.OnWriteStart(ctx, "out.json")
	p.OnWriteComplete(ctx, "out.json", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "simplify")
	c.OnCacheMiss(ctx, "simplify")
	c.OnCacheSet(ctx, "simplify", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Simplify().(NoopSimplifyHooks); !ok {
		t.Error("Simplify() should return NoopSimplifyHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customSimplify := &testSimplifyHooks{}
	SetSimplifyHooks(customSimplify)
	if Simplify() != customSimplify {
		t.Error("SetSimplifyHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Simplify().(NoopSimplifyHooks); !ok {
		t.Error("Reset() should restore NoopSimplifyHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSimplifyHooks{}
	SetSimplifyHooks(custom)
	SetSimplifyHooks(nil)

	if Simplify() != custom {
		t.Error("SetSimplifyHooks(nil) should be ignored")
	}

	Reset()
}

type testSimplifyHooks struct{ NoopSimplifyHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
