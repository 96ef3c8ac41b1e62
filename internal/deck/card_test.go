package deck

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCardUnmarshalKeepsOrderAndKinds(t *testing.T) {
	var c Card
	data := `{"back": "chat", "front": "cat", "back_tts": true, "front_image": null, "back_ipa": 42}`
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := strings.Join(c.Names(), ","); got != "back,front,back_tts,front_image,back_ipa" {
		t.Fatalf("names = %s", got)
	}
	if !c.Get("back").IsText() || c.Get("back").String() != "chat" {
		t.Fatalf("unexpected back value %+v", c.Get("back"))
	}
	if !c.Get("back_tts").IsTrue() {
		t.Fatal("expected back_tts flag")
	}
	if c.Get("front_image").Kind() != ValueAbsent || !c.Has("front_image") {
		t.Fatal("expected present but absent front_image")
	}
	if c.Get("back_ipa").String() != "42" {
		t.Fatalf("numbers should keep literal text, got %q", c.Get("back_ipa").String())
	}
	if c.Get("missing").Kind() != ValueAbsent || c.Has("missing") {
		t.Fatal("missing key should be absent")
	}
}

func TestCardUnmarshalRejectsNested(t *testing.T) {
	var c Card
	if err := json.Unmarshal([]byte(`{"front": {"x": 1}}`), &c); err == nil {
		t.Fatal("expected error for object value")
	}
	if err := json.Unmarshal([]byte(`["front"]`), &c); err == nil {
		t.Fatal("expected error for non-object card")
	}
}

func TestCardCloneIsIndependent(t *testing.T) {
	orig := card("front", "cat")
	clone := orig.Clone()
	clone.Set("front", Text("dog"))
	clone.Set("back", Text("chien"))
	if orig.Get("front").String() != "cat" || orig.Len() != 1 {
		t.Fatalf("original mutated: %v", orig.Names())
	}
}

func TestSetKeepsPositionOnOverwrite(t *testing.T) {
	c := card("a", "1", "b", "2")
	c.Set("a", Text("3"))
	if got := strings.Join(c.Names(), ","); got != "a,b" {
		t.Fatalf("names = %s", got)
	}
}
