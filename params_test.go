package activestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsMatches(t *testing.T) {
	tests := []struct {
		name    string
		desired Params
		current Params
		want    bool
	}{
		{"nil desired", nil, Params{"a": 1}, true},
		{"empty desired", Params{}, nil, true},
		{"equal int", Params{"param": 5}, Params{"param": 5}, true},
		{"different int", Params{"param": 5}, Params{"param": 3}, false},
		{"int vs float", Params{"param": 5}, Params{"param": 5.0}, true},
		{"int vs int64", Params{"param": int64(5)}, Params{"param": uint8(5)}, true},
		{"int vs string", Params{"param": 5}, Params{"param": "5"}, true},
		{"string vs int", Params{"param": "5"}, Params{"param": 5}, true},
		{"string mismatch", Params{"param": "foo"}, Params{"param": "asdf"}, false},
		{"nil is wildcard", Params{"param": nil}, Params{"param": "anything"}, true},
		{"nil wildcard when absent", Params{"param": nil}, Params{}, true},
		{"missing key", Params{"param": "foo"}, Params{}, false},
		{"extra current keys ignored", Params{"a": 1}, Params{"a": 1, "b": 2}, true},
		{"bool", Params{"flag": true}, Params{"flag": true}, true},
		{"bool vs string", Params{"flag": true}, Params{"flag": "true"}, false},
		{"slices", Params{"ids": []string{"x"}}, Params{"ids": []string{"x"}}, true},
		{"number vs bool", Params{"a": 1}, Params{"a": true}, false},
		{"large uints differ", Params{"id": uint64(1<<53 + 1)}, Params{"id": uint64(1 << 53)}, false},
		{"large ints differ", Params{"id": int64(1<<62 + 1)}, Params{"id": int64(1 << 62)}, false},
		{"large int vs uint", Params{"id": int64(1<<62 + 1)}, Params{"id": uint64(1<<62 + 1)}, true},
		{"negative int vs uint", Params{"id": -1}, Params{"id": uint64(1<<64 - 1)}, false},
		{"uint vs negative int", Params{"id": uint64(1<<64 - 1)}, Params{"id": -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.desired.Matches(tt.current))
		})
	}
}

func TestParamsClone(t *testing.T) {
	var nilParams Params
	c := nilParams.Clone()
	assert.NotNil(t, c)
	assert.Empty(t, c)

	p := Params{"a": 1}
	c = p.Clone()
	c["a"] = 2
	assert.Equal(t, 1, p["a"])
}
