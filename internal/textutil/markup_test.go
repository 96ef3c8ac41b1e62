package textutil

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Bonjour", want: "Bonjour"},
		{name: "entities without tags untouched", input: "fish &amp; chips", want: "fish &amp; chips"},
		{name: "simple tags", input: "<b>le</b> chat", want: "le chat"},
		{name: "nested tags", input: "<div><i>la</i> <span class=\"x\">maison</span></div>", want: "la maison"},
		{name: "entities decoded", input: "<p>l&#39;eau &amp; le vin</p>", want: "l'eau & le vin"},
		{name: "accents preserved", input: "<em>é</em>t<u>é</u>", want: "été"},
		{name: "only tags", input: "<br/>", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.input); got != tt.want {
				t.Fatalf("StripMarkup(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
