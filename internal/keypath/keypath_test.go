package keypath

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/dig/internal/node"
)

func mustParseJSON(t *testing.T, input string) node.Node {
	t.Helper()
	n, err := node.Parse([]byte(input))
	if err != nil {
		t.Fatalf("node.Parse(%s) error = %v", input, err)
	}
	return n
}

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		marker string
		want   []any
		found  bool
	}{
		{
			name:   "simple_object",
			input:  `{"name":"*"}`,
			marker: "*",
			want:   []any{"name"},
			found:  true,
		},
		{
			name:   "simple_array",
			input:  `[0,1,"*"]`,
			marker: "*",
			want:   []any{2},
			found:  true,
		},
		{
			name:   "simple_array_longer_marker",
			input:  `[0,1,"***"]`,
			marker: "***",
			want:   []any{2},
			found:  true,
		},
		{
			name:   "object_inside_array",
			input:  `[0,1,{"name":"*"}]`,
			marker: "*",
			want:   []any{2, "name"},
			found:  true,
		},
		{
			name:   "deeply_nested",
			input:  `[0,1,{"first":{"second":{"third":{"name":"*"}}}}]`,
			marker: "*",
			want:   []any{2, "first", "second", "third", "name"},
			found:  true,
		},
		{
			name:   "mapping_then_sequence",
			input:  `{"a":{"b":[0,1,"*"]}}`,
			marker: "*",
			want:   []any{"a", "b", 2},
			found:  true,
		},
		{
			name:   "first_match_depth_first",
			input:  `{"x":[{"deep":"*"}],"y":"*"}`,
			marker: "*",
			want:   []any{"x", 0, "deep"},
			found:  true,
		},
		{
			name:   "skips_exhausted_siblings",
			input:  `{"a":{"b":{}},"c":[[],[1]],"d":{"e":"*"}}`,
			marker: "*",
			want:   []any{"d", "e"},
			found:  true,
		},
		{
			name:   "strict_equality_number_vs_string",
			input:  `{"a":1,"b":"1"}`,
			marker: "1",
			want:   []any{"b"},
			found:  true,
		},
		{
			name:   "not_found",
			input:  `{"a":{"b":["**"]}}`,
			marker: "*",
			found:  false,
		},
		{
			name:   "root_is_marker",
			input:  `"*"`,
			marker: "*",
			want:   []any{},
			found:  true,
		},
		{
			name:   "scalar_root_without_marker",
			input:  `42`,
			marker: "*",
			found:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParseJSON(t, tt.input)

			got, ok := Find(root, node.String(tt.marker))
			if ok != tt.found {
				t.Fatalf("Find() found = %t, want %t", ok, tt.found)
			}
			if !ok {
				return
			}
			if !reflect.DeepEqual(got.Values(), tt.want) {
				t.Errorf("Find() = %v, want %v", got.Values(), tt.want)
			}

			resolved, ok := Resolve(root, got)
			if !ok || !node.StrictEqual(resolved, node.String(tt.marker)) {
				t.Errorf("Resolve(Find()) = %v, %t; want the marker", resolved, ok)
			}
		})
	}
}

func TestFindNonStringMarkers(t *testing.T) {
	root := mustParseJSON(t, `{"a":[false,null,3],"b":true}`)

	tests := []struct {
		name   string
		marker node.Node
		want   Path
	}{
		{name: "null", marker: node.Null(), want: Of("a", 1)},
		{name: "number", marker: node.Number(3), want: Of("a", 2)},
		{name: "bool", marker: node.Bool(true), want: Of("b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Find(root, tt.marker)
			if !ok || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Find() = %v, %t; want %v", got, ok, tt.want)
			}
		})
	}
}

func TestFindContainerMarkerNeverMatches(t *testing.T) {
	root := mustParseJSON(t, `{"a":{}}`)
	if _, ok := Find(root, node.Map()); ok {
		t.Error("Find() with a container marker should not match")
	}
}

func TestPathRendering(t *testing.T) {
	tests := []struct {
		name       string
		path       Path
		str        string
		normalized string
		gjson      string
	}{
		{
			name:       "root",
			path:       Path{},
			str:        "$",
			normalized: "$",
		},
		{
			name:       "names_and_indices",
			path:       Of("animal", "moles", 1, "name"),
			str:        "$.animal.moles[1].name",
			normalized: "$['animal']['moles'][1]['name']",
			gjson:      "animal.moles.1.name",
		},
		{
			name:       "special_characters",
			path:       Of("a.b", "it's", "x*y"),
			str:        `$['a.b']['it\'s']['x*y']`,
			normalized: `$['a.b']['it\'s']['x*y']`,
			gjson:      `a\.b.it\'s.x\*y`,
		},
		{
			name:       "dash_and_leading_digit",
			path:       Of("my-key", "0", "1st"),
			str:        `$['my-key']['0']['1st']`,
			normalized: `$['my-key']['0']['1st']`,
			gjson:      "my-key.0.1st",
		},
		{
			name:       "non_ascii_and_underscore",
			path:       Of("café", "_x1"),
			str:        "$.café._x1",
			normalized: "$['café']['_x1']",
			gjson:      "café._x1",
		},
		{
			name:       "control_characters",
			path:       Of("line\nbreak", "\x01"),
			str:        `$['line\nbreak']['\u0001']`,
			normalized: `$['line\nbreak']['\u0001']`,
			gjson:      "line\\\nbreak.\\\x01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.path.Normalized(); got != tt.normalized {
				t.Errorf("Normalized() = %q, want %q", got, tt.normalized)
			}
			got, err := tt.path.GJSON()
			if tt.gjson == "" {
				if !errors.Is(err, ErrUnsupportedPath) {
					t.Errorf("GJSON() error = %v, want ErrUnsupportedPath", err)
				}
				return
			}
			if err != nil || got != tt.gjson {
				t.Errorf("GJSON() = %q, %v; want %q", got, err, tt.gjson)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    Path
		wantErr bool
	}{
		{name: "root", expr: "$", want: Path{}},
		{name: "dotted", expr: "$.a.b[2]", want: Of("a", "b", 2)},
		{name: "normalized", expr: "$['animal']['moles'][1]['name']", want: Of("animal", "moles", 1, "name")},
		{name: "double_quoted", expr: `$["a b"]`, want: Of("a b")},
		{name: "escapes", expr: `$['it\'s']['tab\there']['é']`, want: Of("it's", "tab\there", "é")},
		{name: "surrogate_pair", expr: `$['\ud83d\ude00']`, want: Of("😀")},
		{name: "numeric_name", expr: "$.0", want: Of("0")},
		{name: "empty", expr: "", wantErr: true},
		{name: "no_root", expr: "a.b", wantErr: true},
		{name: "wildcard", expr: "$.*", wantErr: true},
		{name: "descendant", expr: "$..a", wantErr: true},
		{name: "negative_index", expr: "$[-1]", wantErr: true},
		{name: "leading_zero", expr: "$[01]", wantErr: true},
		{name: "unterminated_bracket", expr: "$[1", wantErr: true},
		{name: "unterminated_quote", expr: "$['a", wantErr: true},
		{name: "bad_escape", expr: `$['\x']`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("Parse(%q) error = %v, want ErrSyntax", tt.expr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.expr, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.expr, got.Values(), tt.want.Values())
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	paths := []Path{
		Of("a", 0, "b"),
		Of("a.b", "it's", "back\\slash", "quote\"d"),
		Of("", 10, "\x1f"),
		Of("my-key", "0", "café"),
	}

	for _, p := range paths {
		for _, expr := range []string{p.String(), p.Normalized()} {
			got, err := Parse(expr)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", expr, err)
			}
			if !reflect.DeepEqual(got, p) {
				t.Errorf("Parse(%q) = %v, want %v", expr, got.Values(), p.Values())
			}
		}
	}
}

// Paths printed by String must be accepted by the JSONPath evaluator.
func TestSelectAcceptsString(t *testing.T) {
	root := mustParseJSON(t, `{"my-key":{"0":{"café":["x","y"]}},"_a1":true}`)

	tests := []struct {
		name string
		path Path
		want any
	}{
		{name: "dash_and_digit", path: Of("my-key", "0", "café", 1), want: "y"},
		{name: "underscore", path: Of("_a1"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(root, tt.path.String())
			if err != nil {
				t.Fatalf("Select(%s) error = %v", tt.path, err)
			}
			if !reflect.DeepEqual(got, []any{tt.want}) {
				t.Errorf("Select(%s) = %v, want [%v]", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	root := mustParseJSON(t, `{"list":[{"name":"x"}],"scalar":1}`)

	tests := []struct {
		name  string
		path  Path
		found bool
	}{
		{name: "root", path: Path{}, found: true},
		{name: "nested", path: Of("list", 0, "name"), found: true},
		{name: "missing_key", path: Of("missing"), found: false},
		{name: "out_of_range", path: Of("list", 1), found: false},
		{name: "index_on_mapping", path: Of(0), found: false},
		{name: "name_on_sequence", path: Of("list", "0"), found: false},
		{name: "step_into_scalar", path: Of("scalar", "x"), found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Resolve(root, tt.path); ok != tt.found {
				t.Errorf("Resolve(%s) found = %t, want %t", tt.path, ok, tt.found)
			}
		})
	}
}

func TestParent(t *testing.T) {
	root := mustParseJSON(t, `{"a":[1,{"b":"*"}]}`)

	parent, key, ok := Parent(root, Of("a", 1, "b"))
	if !ok {
		t.Fatal("Parent() reported false")
	}
	if key != Name("b") || parent.Kind() != node.KindMapping {
		t.Errorf("Parent() = %v, %v", parent, key)
	}

	if _, _, ok := Parent(root, Path{}); ok {
		t.Error("Parent(root) should report false")
	}
}

func TestMark(t *testing.T) {
	source := mustParseJSON(t, `{"animal":{"moles":[{"name":"Mr. Resetti"},{"name":"Don Resetti"}]}}`)

	marked, err := Mark(source, Of("animal", "moles", 1, "name"), node.String("***"))
	if err != nil {
		t.Fatalf("Mark() error = %v", err)
	}

	got, err := node.Text(marked)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"animal":{"moles":[{"name":"Mr. Resetti"},{"name":"***"}]}}`
	if got != want {
		t.Errorf("Mark() = %s, want %s", got, want)
	}

	original, _ := node.Text(source)
	if original != `{"animal":{"moles":[{"name":"Mr. Resetti"},{"name":"Don Resetti"}]}}` {
		t.Errorf("Mark() modified its input: %s", original)
	}

	if _, err := Mark(source, Of("animal", "cats"), node.String("***")); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Mark() error = %v, want ErrPathNotFound", err)
	}
}

func TestSelect(t *testing.T) {
	root := mustParseJSON(t, `{"animal":{"moles":[{"name":"Mr. Resetti"},{"name":"Don Resetti"}]}}`)

	p := Of("animal", "moles", 1, "name")
	got, err := Select(root, p.Normalized())
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !reflect.DeepEqual(got, []any{"Don Resetti"}) {
		t.Errorf("Select() = %v", got)
	}

	got, err = Select(root, "$.animal.moles[*].name")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if !reflect.DeepEqual(got, []any{"Mr. Resetti", "Don Resetti"}) {
		t.Errorf("Select() = %v", got)
	}

	if _, err := Select(root, "$.["); !errors.Is(err, ErrSyntax) {
		t.Errorf("Select() error = %v, want ErrSyntax", err)
	}
}
