package auth

import "testing"

func TestParsePairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  string
		want    map[string]string
		wantErr bool
	}{
		{
			name:   "single entry",
			config: "k1:n1",
			want:   map[string]string{"k1": "n1"},
		},
		{
			name:   "spaces and trailing comma",
			config: " k1 : n1 , k2:n2, ",
			want:   map[string]string{"k1": "n1", "k2": "n2"},
		},
		{
			name:   "right side may contain colons",
			config: "user:$2a$10$abc:def",
			want:   map[string]string{"user": "$2a$10$abc:def"},
		},
		{name: "empty config", config: "", wantErr: true},
		{name: "whitespace config", config: "   ", wantErr: true},
		{name: "missing colon", config: "nocolon", wantErr: true},
		{name: "empty left", config: ":n1", wantErr: true},
		{name: "empty right", config: "k1:", wantErr: true},
		{name: "only separators", config: ",,", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Act
			got, err := parsePairs(tt.config, "test", "left", "right")

			// Assert
			if tt.wantErr {
				if err == nil {
					t.Errorf("parsePairs() expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePairs() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parsePairs() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parsePairs()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
