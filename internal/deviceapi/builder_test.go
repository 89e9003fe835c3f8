package deviceapi

import "testing"

func TestTargetBuilder(t *testing.T) {
	tests := []struct {
		name  string
		build func() string
		want  string
	}{
		{
			name:  "no params",
			build: func() string { return NewTarget("slider_up").Build() },
			want:  "slider_up",
		},
		{
			name: "keeps order",
			build: func() string {
				return NewTarget("x").Param("b", "2").Param("a", "1").Build()
			},
			want: "x?b=2&a=1",
		},
		{
			name: "int params",
			build: func() string {
				return NewTarget("systime_set").IntParam("seconds", 0).IntParam("dow", 7).Build()
			},
			want: "systime_set?seconds=0&dow=7",
		},
		{
			name: "no encoding",
			build: func() string {
				return NewTarget("opentime_set").Param("hours", "7 ").Param("minutes", "a&b").Build()
			},
			want: "opentime_set?hours=7 &minutes=a&b",
		},
		{
			name: "empty value",
			build: func() string {
				return NewTarget("opentime_set").Param("hours", "").Build()
			},
			want: "opentime_set?hours=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build(); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}
}
