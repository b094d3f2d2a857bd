package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Distance(t *testing.T) {
	a := Vec2{8, 8}
	b := Vec2{8 + 3, 8 + 4}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Vec2.Distance() = %v, want 5", got)
	}
}

func TestVec2Div(t *testing.T) {
	got := Vec2{33, -1}.Div(Vec2{16, 16})
	x, y := got.Floor()
	if x != 2 || y != -1 {
		t.Errorf("Vec2.Div().Floor() = (%d,%d), want (2,-1)", x, y)
	}

	if got := (Vec2{5, 5}).Div(Vec2{0, 1}); got != (Vec2{0, 5}) {
		t.Errorf("Vec2.Div() by zero component = %v, want {0 5}", got)
	}
}

func TestVec2Mul(t *testing.T) {
	got := Vec2{2, 3}.Mul(Vec2{16, 8})
	want := Vec2{32, 24}
	if got != want {
		t.Errorf("Vec2.Mul() = %v, want %v", got, want)
	}
}
