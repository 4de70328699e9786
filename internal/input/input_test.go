package input

import "testing"

func TestPorts_Released(t *testing.T) {
	s := New()
	in0, in1 := s.Ports()
	if in0 != 0xFF || in1 != 0xFF {
		t.Fatalf("idle ports got %02x %02x want ff ff", in0, in1)
	}
}

func TestPorts_ActiveLow(t *testing.T) {
	s := New()
	s.Update(Buttons{Up: true, Coin1: true, Start1: true})
	in0, in1 := s.Ports()
	if in0 != 0xDE {
		t.Fatalf("IN0 got %02x want de", in0)
	}
	if in1 != 0xDE {
		t.Fatalf("IN1 got %02x want de", in1)
	}
	s.SetCocktail(true)
	if _, in1 := s.Ports(); in1&0x80 != 0 {
		t.Fatalf("cocktail bit still set: %02x", in1)
	}
}

func TestEdges(t *testing.T) {
	s := New()
	s.Update(Buttons{Coin1: true})
	if !s.Pressed(Coin1) || !s.Held(Coin1) {
		t.Fatalf("coin press not seen")
	}
	s.Update(Buttons{Coin1: true})
	if s.Pressed(Coin1) {
		t.Fatalf("held coin reported as new press")
	}
	s.Update(Buttons{})
	if !s.Released(Coin1) || s.Held(Coin1) {
		t.Fatalf("coin release not seen")
	}
	if s.Pressed(Left) || s.Released(Left) {
		t.Fatalf("untouched control reported an edge")
	}
}
