package parser

import (
	"github.com/gad-lang/esparse/parser/node"
)

type frameKind uint8

const (
	funcFrame frameKind = iota
	blockFrame
	loopFrame
	switchFrame
	labelFrame
	classFrame
)

// frame is an entry of the parser context stack.
type frame struct {
	kind  frameKind
	fn    *funcCtx
	cls   *classCtx
	label string
	pos   int
	// statements parsed so far in the list the frame owns
	stmts node.Stmts
}

// funcCtx is what the grammar needs to know about the function being
// parsed. The root of a unit has one too.
type funcCtx struct {
	async          bool
	generator      bool
	arrow          bool
	allowReturn    bool
	allowSuperProp bool
	allowSuperCall bool
	allowNewTarget bool
	staticBlock    bool
	fieldInit      bool
	// speculative frames cover a parenthesized expression that may turn
	// out to be arrow parameters
	speculative bool
	inParams    bool
	awaitPos    int
	yieldPos    int
	// first await used as an identifier inside a speculative frame
	awaitIdent int
}

func newFuncCtx() *funcCtx {
	return &funcCtx{awaitPos: -1, yieldPos: -1, awaitIdent: -1}
}

type classCtx struct {
	derived        bool
	hasConstructor bool
}

type contextStack struct {
	frames []*frame
}

func (s *contextStack) depth() int {
	return len(s.frames)
}

func (s *contextStack) push(f *frame) *frame {
	s.frames = append(s.frames, f)
	return f
}

func (s *contextStack) pushFunc(fn *funcCtx) *frame {
	return s.push(&frame{kind: funcFrame, fn: fn})
}

func (s *contextStack) pop() *frame {
	n := len(s.frames) - 1
	f := s.frames[n]
	s.frames[n] = nil
	s.frames = s.frames[:n]
	return f
}

// truncate pops frames until depth n remains.
func (s *contextStack) truncate(n int) {
	for len(s.frames) > n {
		s.pop()
	}
}

func (s *contextStack) top() *frame {
	return s.frames[len(s.frames)-1]
}

// fn returns the innermost function context, speculative ones included.
func (s *contextStack) fn() *funcCtx {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if f := s.frames[i]; f.kind == funcFrame {
			return f.fn
		}
	}
	return nil
}

// effective returns the innermost function context that is not a
// speculative cover frame.
func (s *contextStack) effective() *funcCtx {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if f := s.frames[i]; f.kind == funcFrame && !f.fn.speculative {
			return f.fn
		}
	}
	return nil
}

// nonArrow returns the innermost function context that binds this.
func (s *contextStack) nonArrow() *funcCtx {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if f := s.frames[i]; f.kind == funcFrame && !f.fn.arrow {
			return f.fn
		}
	}
	return nil
}

// speculating returns the innermost speculative frames up to the nearest
// real function, so await and yield positions can be recorded on them.
func (s *contextStack) speculating(fn func(*funcCtx)) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.kind != funcFrame {
			continue
		}
		if !f.fn.speculative {
			return
		}
		fn(f.fn)
	}
}

// class returns the innermost class context.
func (s *contextStack) class() *classCtx {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if f := s.frames[i]; f.kind == classFrame {
			return f.cls
		}
	}
	return nil
}

// findLabel returns the index of the label frame with the given name in
// the current function, or -1.
func (s *contextStack) findLabel(name string) int {
	for i := len(s.frames) - 1; i >= 0; i-- {
		switch f := s.frames[i]; f.kind {
		case funcFrame, classFrame:
			return -1
		case labelFrame:
			if f.label == name {
				return i
			}
		}
	}
	return -1
}

// canBreak reports whether an unlabelled break has a target.
func (s *contextStack) canBreak() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		switch s.frames[i].kind {
		case funcFrame, classFrame:
			return false
		case loopFrame, switchFrame:
			return true
		}
	}
	return false
}

// canContinue reports whether continue has a target. A labelled continue
// needs the label to name a loop, possibly through further labels.
func (s *contextStack) canContinue(label string) bool {
	if label == "" {
		for i := len(s.frames) - 1; i >= 0; i-- {
			switch s.frames[i].kind {
			case funcFrame, classFrame:
				return false
			case loopFrame:
				return true
			}
		}
		return false
	}
	i := s.findLabel(label)
	if i < 0 {
		return false
	}
	for i++; i < len(s.frames) && s.frames[i].kind == labelFrame; i++ {
	}
	return i < len(s.frames) && s.frames[i].kind == loopFrame
}
