package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ScalarsAndNestedBlocks(t *testing.T) {
	input := `
Mission
{
	name = Mun Flyby
	reward = 50000

	OrbitGoal
	{
		body = Mun
		minApA = 100000
	}
}
`
	nodes, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	m := nodes[0]
	assert.Equal(t, "Mission", m.Name)
	assert.False(t, m.Scalar)

	name, ok := m.ScalarValue("name")
	require.True(t, ok)
	assert.Equal(t, "Mun Flyby", name, "unquoted scalars run to end of line, trimmed")

	goal := m.First("OrbitGoal")
	require.NotNil(t, goal)
	body, _ := goal.ScalarValue("body")
	assert.Equal(t, "Mun", body)
}

func TestParse_SingleLineBlock(t *testing.T) {
	nodes, err := Parse(`OrbitGoal { minApA = RANDOM(100000,200000) maxApA = ADD(minApA, 5000) }`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	g := nodes[0]
	require.Len(t, g.Children, 2)
	min, _ := g.ScalarValue("minApA")
	max, _ := g.ScalarValue("maxApA")
	assert.Equal(t, "RANDOM(100000,200000)", min)
	assert.Equal(t, "ADD(minApA, 5000)", max)
}

func TestParse_NestedBlockAfterValueOnSameLine(t *testing.T) {
	nodes, err := Parse(`Mission { name = Zulu LandingGoal { body = Mun } }`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	name, _ := nodes[0].ScalarValue("name")
	assert.Equal(t, "Zulu", name, "value stops at the start of a nested block")
	require.NotNil(t, nodes[0].First("LandingGoal"))
}

func TestParse_RepeatedBlocksKeepOrder(t *testing.T) {
	input := `
Mission
{
	OrbitGoal { minApA = 1 }
	LandingGoal { body = Mun }
	OrbitGoal { minApA = 2 }
}
`
	nodes, err := Parse(input)
	require.NoError(t, err)

	blocks := nodes[0].Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, "OrbitGoal", blocks[0].Name)
	assert.Equal(t, "LandingGoal", blocks[1].Name)
	assert.Equal(t, "OrbitGoal", blocks[2].Name)

	orbits := nodes[0].All("OrbitGoal")
	require.Len(t, orbits, 2)
	first, _ := orbits[0].ScalarValue("minApA")
	assert.Equal(t, "1", first)
}

func TestParse_MultipleTopLevelBlocks(t *testing.T) {
	nodes, err := Parse("Mission { name = A }\nMission { name = B }\n")
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestParse_CommentsStripped(t *testing.T) {
	nodes, err := Parse("Mission // trailing\n{\n\t// full line\n\tname = A // end\n}\n")
	require.NoError(t, err)
	name, _ := nodes[0].ScalarValue("name")
	assert.Equal(t, "A", name)
}

func TestParse_UnterminatedBlock(t *testing.T) {
	_, err := Parse("Mission\n{\n\tname = A\n")
	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 1, serr.Line, "error reports the line the block opened on")
}

func TestParse_UnmatchedClose(t *testing.T) {
	_, err := Parse("Mission { }\n}\n")
	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 2, serr.Line)
}

func TestParse_ValueBeforeKey(t *testing.T) {
	_, err := Parse("Mission\n{\n\t= 42\n}\n")
	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 3, serr.Line)
}

func TestParse_BlockWithoutName(t *testing.T) {
	_, err := Parse("{\n}\n")
	var serr *SyntaxError
	assert.True(t, errors.As(err, &serr))
}

func TestParseOne(t *testing.T) {
	_, err := ParseOne("Mission { }\nMission { }\n")
	assert.Error(t, err)

	n, err := ParseOne("Mission { name = A }")
	require.NoError(t, err)
	assert.Equal(t, "Mission", n.Name)
}

func TestWrite_RoundTrip(t *testing.T) {
	input := `Mission
{
	name = Mun Flyby
	OrbitGoal
	{
		minApA = 100000
		body = Mun
	}
	OrbitGoal
	{
		minApA = 200000
	}
}
`
	nodes, err := Parse(input)
	require.NoError(t, err)

	out := Write(nodes...)
	again, err := Parse(out)
	require.NoError(t, err)

	assert.Equal(t, out, Write(again...), "writing is stable across a parse cycle")
}
