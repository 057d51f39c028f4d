// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx/gpu"
	"github.com/gogpu/gputypes"
)

func TestBatchPush(t *testing.T) {
	b := NewBatch(nil, nil, gpu.Lines)
	if !b.Empty() {
		t.Fatal("new batch not empty")
	}
	b.Push(mgl32.Ident4(), 2, 0, 0)
	b.Push(mgl32.Ident4(), 2, 2, 3)

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	e := b.Entries()
	if e[0].Instances != 1 {
		t.Errorf("Entries()[0].Instances = %d, want 1", e[0].Instances)
	}
	if e[1].Offset != 2 || e[1].Instances != 3 {
		t.Errorf("Entries()[1] = %+v", e[1])
	}

	// Entries is a copy.
	e[0].Count = 99
	if b.Entries()[0].Count != 2 {
		t.Error("Entries() aliases the batch")
	}

	b.Reset(nil, nil, gpu.Points)
	if !b.Empty() || b.Key().Mode != gpu.Points {
		t.Errorf("after Reset: Len() = %d, Key() = %+v", b.Len(), b.Key())
	}
}

func TestBatchCoalescesAdjacentDraws(t *testing.T) {
	f := newFixture(t)
	s := f.r.NewScript()
	s.EnableShader(f.sh)
	for i := range 4 {
		s.Draw(f.vb, nil, gpu.Triangles, mgl32.Translate3D(float32(i), 0, 0), 3, 0)
	}
	s.DisableShader()
	s.Execute()

	if got := f.ctx.Log.Count("NewVertexArray"); got != 1 {
		t.Errorf("NewVertexArray calls = %d, want 1", got)
	}
	if got := f.ctx.Log.Count("Render"); got != 4 {
		t.Errorf("Render calls = %d, want 4", got)
	}
	// The model uniform is set once per entry, before its render call.
	equalStrings(t, "entries", f.ctx.Log.Ops("SetUniform", "Render")[2:], []string{
		"SetUniform", "Render",
		"SetUniform", "Render",
		"SetUniform", "Render",
		"SetUniform", "Render",
	})
	u, _ := f.sh.Uniform(UniformModel)
	if got := u.Value(); got != mgl32.Translate3D(3, 0, 0) {
		t.Errorf("model = %v, want last transform", got)
	}
}

func TestBatchCommitsOnKeyChange(t *testing.T) {
	f := newFixture(t)
	other := f.newBuffer(t, "other")
	other.Upload(f32(triangle))

	s := f.r.NewScript()
	s.EnableShader(f.sh)
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.Draw(other, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.Draw(f.vb, nil, gpu.Lines, mgl32.Ident4(), 2, 0)
	s.DisableShader()
	s.Execute()

	if got := f.ctx.Log.Count("NewVertexArray"); got != 4 {
		t.Errorf("NewVertexArray calls = %d, want 4", got)
	}
	equalStrings(t, "renders", f.ctx.Log.Strings("Render"), []string{
		"Render(Triangles,3,0,1)",
		"Render(Triangles,3,0,1)",
		"Render(Triangles,3,0,1)",
		"Render(Triangles,3,0,1)",
		"Render(Lines,2,0,1)",
	})
}

func TestBatchCommitsOnStateChange(t *testing.T) {
	f := newFixture(t)
	s := f.r.NewScript()
	s.EnableShader(f.sh)
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.SetUniform("tint", mgl32.Vec4{1, 1, 1, 1})
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.Clear(gputypes.Color{})
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.Execute()

	if got := f.ctx.Log.Count("NewVertexArray"); got != 3 {
		t.Errorf("NewVertexArray calls = %d, want 3", got)
	}
	// The tint is set after the first render and before the second.
	ops := f.ctx.Log.Strings("Render", "Clear", "SetUniform")
	var seq []string
	for _, op := range ops {
		if op == "SetUniform(flat,tint)" || op == "Clear(0,0,0,0)" || op == "Render(Triangles,3,0,1)" {
			seq = append(seq, op)
		}
	}
	equalStrings(t, "order", seq, []string{
		"Render(Triangles,3,0,1)",
		"SetUniform(flat,tint)",
		"Render(Triangles,3,0,1)",
		"Clear(0,0,0,0)",
		"Render(Triangles,3,0,1)",
	})
}

func TestBatchCommitsBeforeShaderSwitch(t *testing.T) {
	f := newFixture(t)
	other := f.r.NewShader(gpu.ShaderSource{Label: "flat"})
	f.r.RegisterShader("flat2", other)
	f.ctx.Log.Reset()

	s := f.r.NewScript()
	s.EnableShader(f.sh)
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.EnableShader(other)
	s.Execute()

	// The pending draw renders before the second Bind.
	equalStrings(t, "order", f.ctx.Log.Ops("Bind", "Render"), []string{"Bind", "Render", "Bind"})
}

func TestDrawBatch(t *testing.T) {
	f := newFixture(t)
	b := NewBatch(f.vb, nil, gpu.Triangles)
	b.Push(mgl32.Ident4(), 3, 0, 1)
	b.Push(mgl32.Scale3D(2, 2, 1), 3, 0, 2)

	s := f.r.NewScript()
	s.EnableShader(f.sh)
	s.DrawBatch(b)
	b.Push(mgl32.Ident4(), 3, 0, 1) // not recorded
	s.DisableShader()

	s.Execute()
	equalStrings(t, "renders", f.ctx.Log.Strings("Render"),
		[]string{"Render(Triangles,3,0,1)", "Render(Triangles,3,0,2)"})

	f.ctx.Log.Reset()
	s.Execute()
	if got := f.ctx.Log.Count("Render"); got != 2 {
		t.Errorf("replayed Render calls = %d, want 2", got)
	}
	if b.Len() != 3 {
		t.Errorf("source batch Len() = %d, want 3", b.Len())
	}
}

func TestBatchIndexed(t *testing.T) {
	f := newFixture(t)
	ib := f.r.NewIndexBuffer(3, gputypes.IndexFormatUint16, false)
	f.r.RegisterBuffer("indices", ib)
	ib.Upload(gpu.Uint16Bytes(0, 1, 2))
	f.ctx.Log.Reset()

	s := f.r.NewScript()
	s.EnableShader(f.sh)
	s.Draw(f.vb, ib, gpu.Triangles, mgl32.Ident4(), 3, 0)
	s.Execute()
	equalStrings(t, "vao", f.ctx.Log.Strings("NewVertexArray"), []string{"NewVertexArray(flat,1,true)"})
}

func TestBatchCommitFailure(t *testing.T) {
	f := newFixture(t)
	f.ctx.FailVertexArray = gpu.ErrNotAllocated

	s := f.r.NewScript()
	s.EnableShader(f.sh)
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Ident4(), 3, 0)
	err := expectContract(t, s.Execute)
	if err.Op != "render.Batch.Commit" {
		t.Errorf("Op = %q, want render.Batch.Commit", err.Op)
	}
}

func TestBatchCommitOutsideScope(t *testing.T) {
	f := newFixture(t)
	st := f.r.State()
	st.Shader = f.sh

	b := NewBatch(f.vb, nil, gpu.Triangles)
	b.Push(mgl32.Ident4(), 3, 0, 1)
	b.Commit(st)

	equalStrings(t, "scope", f.ctx.Log.Ops("Enter", "Render", "Exit"), []string{"Enter", "Render", "Exit"})
	if !b.Empty() {
		t.Error("batch not empty after Commit")
	}
	if b.Key().VertexBuffer != f.vb {
		t.Error("Commit dropped the key")
	}
}

func TestBatchCommitReleasesOnPanic(t *testing.T) {
	f := newFixture(t)
	st := f.r.State()
	st.Shader = f.sh
	f.ctx.FailRender = gpu.ErrNotAllocated

	b := NewBatch(f.vb, nil, gpu.Triangles)
	b.Push(mgl32.Ident4(), 3, 0, 1)
	b.Push(mgl32.Ident4(), 3, 0, 1)
	err := expectContract(t, func() { b.Commit(st) })
	if err.Op != "gputest.VertexArray.Render" {
		t.Errorf("Op = %q, want gputest.VertexArray.Render", err.Op)
	}
	if got := f.ctx.Log.Count("ReleaseVertexArray"); got != 1 {
		t.Errorf("ReleaseVertexArray calls = %d, want 1", got)
	}
	if !b.Empty() {
		t.Errorf("batch Len() = %d after failed Commit, want 0", b.Len())
	}
	if f.ctx.Entered {
		t.Error("scope left open after failed Commit")
	}
}

func TestBatchWithoutModelUniform(t *testing.T) {
	f := newFixture(t)
	f.dev.Define("bare", []string{"position", "color"})
	bare := f.r.NewShader(gpu.ShaderSource{Label: "bare"})
	f.r.RegisterShader("bare", bare)
	f.ctx.Log.Reset()

	s := f.r.NewScript()
	s.EnableShader(bare)
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Translate3D(1, 0, 0), 3, 0)
	s.Draw(f.vb, nil, gpu.Triangles, mgl32.Translate3D(2, 0, 0), 3, 0)
	s.DisableShader()
	s.Execute()

	if got := f.ctx.Log.Count("Render"); got != 2 {
		t.Errorf("Render calls = %d, want 2", got)
	}
	if got := f.ctx.Log.Count("SetUniform"); got != 0 {
		t.Errorf("SetUniform calls = %d, want 0", got)
	}
}

func f32(v []float32) []byte { return gpu.Float32Bytes(v...) }
