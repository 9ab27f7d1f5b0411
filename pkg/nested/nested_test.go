package nested

import (
	"errors"
	"strings"
	"testing"

	"github.com/leapstack-labs/coltype/internal/testutil"
	"github.com/leapstack-labs/coltype/pkg/core"
	"github.com/leapstack-labs/coltype/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNestedType(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		database string
		want     bool
	}{
		{"hive struct", "struct<hello, goodbye>", "hive", true},
		{"hive unsupported keyword", "xyz<hello, goodbye>", "hive", false},
		{"hive primitive", "string", "hive", false},
		{"hive bare keyword", "struct", "hive", false},
		{"hive uniontype", "uniontype<int,string>", "hive", true},
		{"hive row is presto only", "row(a int)", "hive", false},
		{"presto row", "row(a varchar)", "presto", true},
		{"presto bare row", "row", "presto", false},
		{"presto struct is hive only", "struct<a:int>", "presto", false},
		{"presto array", "array(varchar)", "presto", true},
		{"unknown dialect", "struct<a:int>", "oracle", false},
		{"empty dialect", "struct<a:int>", "", false},
		{"dialect name is case sensitive", "map<string,int>", "HIVE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNestedType(tt.typ, tt.database))
		})
	}
}

func TestIsNestedType_BareKeywords(t *testing.T) {
	for _, name := range dialect.List() {
		d, _ := dialect.Get(name)
		for _, kw := range d.Keywords() {
			assert.False(t, IsNestedType(kw, name), "%s: bare %q must not be nested", name, kw)
			assert.True(t, IsNestedType(kw+"<x>", name), "%s: %q with content must be nested", name, kw)
		}
	}
}

func TestParseNestedType_HiveDeep(t *testing.T) {
	typ := "array<struct<amount:bigint,column:struct<column_id:string,name:string,template:struct<code:string,currency:string>>,id:string>>"

	want := &core.NestedType{
		Head: "array<",
		Tail: ">",
		Children: []core.ParsedType{
			&core.NestedType{
				Head: "struct<",
				Tail: ">",
				Children: []core.ParsedType{
					core.Leaf("amount:bigint,"),
					&core.NestedType{
						Head: "column:struct<",
						Tail: ">,",
						Children: []core.ParsedType{
							core.Leaf("column_id:string,"),
							core.Leaf("name:string,"),
							&core.NestedType{
								Head: "template:struct<",
								Tail: ">",
								Children: []core.ParsedType{
									core.Leaf("code:string,"),
									core.Leaf("currency:string"),
								},
							},
						},
					},
					core.Leaf("id:string"),
				},
			},
		},
	}

	got := ParseNestedType(typ, "hive")
	require.NotNil(t, got)
	assert.Equal(t, want, got)
	assert.Equal(t, 4, got.Depth())
	assert.Equal(t, typ, got.Text())
	assert.Equal(t, "array<...>", got.Truncated())
}

func TestParseNestedType_PrestoTimestampPrecision(t *testing.T) {
	typ := `row("c0_test" timestamp(3),"c1" row("c2" timestamp(3),"c3_test" varchar,"c4" array(varchar)))`

	want := &core.NestedType{
		Head: "row(",
		Tail: ")",
		Children: []core.ParsedType{
			core.Leaf("c0_test timestamp(3),"),
			&core.NestedType{
				Head: "c1 row(",
				Tail: ")",
				Children: []core.ParsedType{
					core.Leaf("c2 timestamp(3),"),
					core.Leaf("c3_test varchar,"),
					&core.NestedType{
						Head:     "c4 array(",
						Tail:     ")",
						Children: []core.ParsedType{core.Leaf("varchar")},
					},
				},
			},
		},
	}

	got := ParseNestedType(typ, "presto")
	require.NotNil(t, got)
	assert.Equal(t, want, got)
	assert.NotContains(t, got.Text(), `"`, "presto quotes are stripped")
}

func TestParseNestedType_WhitespaceAndSeparators(t *testing.T) {
	got := ParseNestedType("struct<hello, goodbye>", "hive")
	require.NotNil(t, got)

	assert.Equal(t, "struct<", got.Head)
	assert.Equal(t, ">", got.Tail)
	assert.Equal(t, []core.ParsedType{core.Leaf("hello,"), core.Leaf("goodbye")}, got.Children)
}

func TestParseNestedType_MapAndArrayOfStructs(t *testing.T) {
	got := ParseNestedType("map<string,array<struct<a:int,b:string>>>", "hive")
	require.NotNil(t, got)

	require.Len(t, got.Children, 2)
	assert.Equal(t, core.Leaf("string,"), got.Children[0])

	arr, ok := got.Children[1].(*core.NestedType)
	require.True(t, ok)
	assert.Equal(t, "array<", arr.Head)
	assert.Equal(t, ">", arr.Tail)

	st, ok := arr.Children[0].(*core.NestedType)
	require.True(t, ok)
	assert.Equal(t, "struct<...>", st.Truncated())
	assert.Equal(t, []core.ParsedType{core.Leaf("a:int,"), core.Leaf("b:string")}, st.Children)
}

func TestParseNestedType_SquareBrackets(t *testing.T) {
	got := ParseNestedType("array[struct<a:int>,int]", "hive")
	require.NotNil(t, got)

	assert.Equal(t, "array[", got.Head)
	assert.Equal(t, "]", got.Tail)
	require.Len(t, got.Children, 2)
	assert.Equal(t, ">,", got.Children[0].(*core.NestedType).Tail)
	assert.Equal(t, core.Leaf("int"), got.Children[1])
}

func TestParseNestedType_NotNested(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		database string
	}{
		{"primitive", "string", "hive"},
		{"bare keyword", "struct", "hive"},
		{"unsupported keyword", "xyz<a>", "hive"},
		{"unknown dialect", "struct<a:int>", "unknown"},
		{"keyword prefix without delimiter", "arrayfoo", "hive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseNestedType(tt.typ, tt.database))

			n, err := Parse(tt.typ, tt.database)
			assert.NoError(t, err)
			assert.Nil(t, n)
		})
	}
}

func TestParse_DialectNameMatchedExactly(t *testing.T) {
	assert.Nil(t, ParseNestedType("map<string,int>", "HIVE"))
	assert.NotNil(t, ParseNestedType("map<string,int>", "hive"))

	n, err := Parse("row(a int)", "Presto", WithStrict())
	assert.NoError(t, err)
	assert.Nil(t, n)

	_, ok := Truncate("array<int>", "Hive")
	assert.False(t, ok)
}

func TestParse_NilExactlyWhenNotNested(t *testing.T) {
	inputs := []string{
		"struct<a:int>",
		"struct",
		"string",
		"array<map<string,int>>",
		`row("a" varchar)`,
		"row",
		"map",
	}

	for _, database := range []string{"hive", "presto", "nope"} {
		for _, typ := range inputs {
			got := ParseNestedType(typ, database)
			d, ok := dialect.Get(database)
			nested := ok && d.IsNestedKeyword(d.Preprocess(typ))
			assert.Equal(t, nested, got != nil, "%s/%s", database, typ)
		}
	}
}

func TestParse_BestEffortMalformed(t *testing.T) {
	t.Run("unclosed element keeps what was seen", func(t *testing.T) {
		got := ParseNestedType("struct<a:int,b:array<string", "hive")
		require.NotNil(t, got)
		assert.Equal(t, "struct<", got.Head)
		assert.Empty(t, got.Tail)
		require.Len(t, got.Children, 2)
		assert.Equal(t, core.Leaf("a:int,"), got.Children[0])

		inner := got.Children[1].(*core.NestedType)
		assert.Equal(t, "b:array<", inner.Head)
		assert.Equal(t, []core.ParsedType{core.Leaf("string")}, inner.Children)
		assert.Equal(t, "struct<...", got.Truncated())
	})

	t.Run("trailing content is ignored", func(t *testing.T) {
		got := ParseNestedType("array<int>junk", "hive")
		require.NotNil(t, got)
		assert.Equal(t, "array<...>", got.Truncated())
	})

	t.Run("mismatched closer is accepted", func(t *testing.T) {
		got := ParseNestedType("struct<a:int)", "hive")
		require.NotNil(t, got)
		assert.Equal(t, ")", got.Tail)
	})

	t.Run("unclosed precision swallows the rest", func(t *testing.T) {
		got := ParseNestedType("row(a timestamp(3, b varchar", "presto")
		require.NotNil(t, got)
		assert.Equal(t, []core.ParsedType{core.Leaf("a timestamp(3, b varchar")}, got.Children)
	})
}

func TestParse_Strict(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		wantErr error
		wantPos int
	}{
		{"unclosed", "struct<a:int,b:array<string", ErrUnclosed, 20},
		{"mismatched", "struct<a:int)", ErrMismatched, 12},
		{"trailing content", "array<int>junk", ErrTrailing, 10},
		{"trailing separator", "array<int>,", ErrTrailing, 10},
		{"no root", "arrayfoo", ErrNoRoot, 0},
		{"stray close before root", "struct>", ErrUnexpectedClose, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.typ, "hive", WithStrict())
			require.Error(t, err)
			assert.Nil(t, n)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantPos, pe.Pos)
			assert.Equal(t, tt.typ, pe.Input)
		})
	}
}

func TestParse_StrictUnclosedPrecision(t *testing.T) {
	_, err := Parse("row(a timestamp(3, b varchar", "presto", WithStrict())
	assert.ErrorIs(t, err, ErrUnclosed)
}

func TestParse_StrictAcceptsWellFormed(t *testing.T) {
	inputs := map[string]string{
		"array<struct<a:int,b:map<string,array<int>>>>": "hive",
		"struct<a:int> ":                                "hive",
		`row("c0" timestamp(3),"c1" row("c2" varchar))`: "presto",
		"map(varchar,array(row(x bigint)))":             "trino",
	}

	for typ, database := range inputs {
		n, err := Parse(typ, database, WithStrict())
		require.NoError(t, err, typ)
		require.NotNil(t, n, typ)
	}
}

func TestParse_MaxDepth(t *testing.T) {
	typ := strings.Repeat("array<", 10) + "int" + strings.Repeat(">", 10)

	n, err := Parse(typ, "hive", WithMaxDepth(10))
	require.NoError(t, err)
	assert.Equal(t, 10, n.Depth())

	_, err = Parse(typ, "hive", WithMaxDepth(9))
	assert.ErrorIs(t, err, ErrTooDeep)
	assert.Nil(t, ParseNestedType(strings.Repeat("array<", DefaultMaxDepth+1), "hive"))
}

func TestParse_DeepNestingDefault(t *testing.T) {
	depth := 100
	typ := strings.Repeat("struct<f:", depth) + "int" + strings.Repeat(">", depth)

	n, err := Parse(typ, "hive", WithStrict(), WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, depth, n.Depth())
	assert.Equal(t, typ, n.Text())
}

func TestParser_IsNested(t *testing.T) {
	d, err := dialect.Lookup("presto")
	require.NoError(t, err)

	p := NewParser(d)
	assert.Same(t, d, p.Dialect())
	assert.True(t, p.IsNested(`row("a" varchar)`))
	assert.False(t, p.IsNested("varchar"))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		typ      string
		database string
		want     string
		ok       bool
	}{
		{"struct<a:int,b:string>", "hive", "struct<...>", true},
		{`row("a" row("b" int))`, "presto", "row(...)", true},
		{"array<int>,", "hive", "array<...>", true},
		{"string", "hive", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got, ok := Truncate(tt.typ, tt.database)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncated_Form(t *testing.T) {
	n := &core.NestedType{Head: "hello<", Tail: ">,", Children: []core.ParsedType{core.Leaf("a")}}
	assert.Equal(t, "hello<...>", n.Truncated())
}
