package csharp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/insightgraph/insight"
	"github.com/viant/insightgraph/oracle/csharp"
)

func TestLocalInitializedFromParameterThroughRealSource(t *testing.T) {
	src := `
class Calculator {
    int Compute(int input) {
        int result = input;
        return result;
    }

    void Run() {
        int total = 5;
        int output = Compute(total);
    }
}
`
	o, err := csharp.NewOracle(context.Background(), map[string][]byte{"calc.cs": []byte(src)})
	require.NoError(t, err)

	graph, err := insight.Analyze(context.Background(), o, "calc.cs", 4, 16)
	require.NoError(t, err)
	require.NotNil(t, graph)
	assert.Equal(t, "result", graph.Root.Name)
	assert.Contains(t, graph.Root.Excerpt, "result", "expected the root node's excerpt to echo its declaring source line")

	var sawInput bool
	for _, n := range graph.Nodes {
		if n.Name == "input" {
			sawInput = true
		}
	}
	assert.True(t, sawInput, "expected traversal to reach the input parameter")
}

func TestOverrideFanOutThroughRealSource(t *testing.T) {
	src := `
class Shape {
    public virtual double GetArea() {
        return 0;
    }
}

class Rectangle : Shape {
    double width;
    double height;

    public override double GetArea() {
        double area = width * height;
        return area;
    }
}
`
	o, err := csharp.NewOracle(context.Background(), map[string][]byte{"shapes.cs": []byte(src)})
	require.NoError(t, err)

	graph, err := insight.Analyze(context.Background(), o, "shapes.cs", 3, 33)
	require.NoError(t, err)
	require.NotNil(t, graph)

	var sawArea bool
	for _, n := range graph.Nodes {
		if n.Name == "area" {
			sawArea = true
		}
	}
	assert.True(t, sawArea, "expected override resolution to reach Rectangle.GetArea's local")
}

func TestObjectInitializerThroughRealSource(t *testing.T) {
	src := `
class Person {
    string Name;

    string GetGreetings() {
        return Name;
    }
}

class Program {
    void Run() {
        string someName = "Paul";
        Person p = new Person { Name = someName };
        string r = p.GetGreetings();
    }
}
`
	o, err := csharp.NewOracle(context.Background(), map[string][]byte{"program.cs": []byte(src)})
	require.NoError(t, err)

	graph, err := insight.Analyze(context.Background(), o, "program.cs", 14, 16)
	require.NoError(t, err)
	require.NotNil(t, graph)
	assert.Equal(t, "r", graph.Root.Name)

	byId := map[string]*insight.Node{}
	for _, n := range graph.Nodes {
		byId[n.Id] = n
	}
	relationTo := func(n *insight.Node, targetName string) (insight.Relation, bool) {
		for _, e := range n.Edges {
			if target, ok := byId[e.TargetId]; ok && target.Name == targetName {
				return e.Relation, true
			}
		}
		return "", false
	}

	greetings, ok := relationTo(graph.Root, "GetGreetings")
	require.True(t, ok, "expected r to have an edge to GetGreetings")
	assert.Equal(t, insight.Initialization, greetings, "expected r to be initialized from the GetGreetings() call")

	greetingsNode := byId[nodeIdByName(graph, "GetGreetings")]
	require.NotNil(t, greetingsNode)
	name, ok := relationTo(greetingsNode, "Name")
	require.True(t, ok, "expected GetGreetings to have an edge to Name")
	assert.Equal(t, insight.ReturnContributor, name, "expected GetGreetings to return the Name field")

	nameNode := byId[nodeIdByName(graph, "Name")]
	require.NotNil(t, nameNode)
	someName, ok := relationTo(nameNode, "someName")
	require.True(t, ok, "expected Name to have an edge to someName")
	assert.Equal(t, insight.ObjectInitializer, someName, "expected Name to trace back to someName through Person's object initializer")
}

func TestIncrementAndDecrementAreWriteSites(t *testing.T) {
	src := `
class Counter {
    void Run() {
        int x = 0;
        x++;
        --x;
    }
}
`
	o, err := csharp.NewOracle(context.Background(), map[string][]byte{"counter.cs": []byte(src)})
	require.NoError(t, err)

	sym, ok := o.SymbolAt(context.Background(), "counter.cs", 4, 13)
	require.True(t, ok)

	refs, err := o.References(context.Background(), sym)
	require.NoError(t, err)

	var writeCount int
	for _, ref := range refs {
		if !ref.IsWrite || ref.IsDeclaration {
			continue
		}
		writeCount++
		_, ok := o.WriteRHS(ref)
		assert.True(t, ok, "expected a resolvable RHS syntax for the increment/decrement write site")
	}
	assert.Equal(t, 2, writeCount, "expected x++ and --x to both register as write sites")
}

func nodeIdByName(graph *insight.Graph, name string) string {
	for _, n := range graph.Nodes {
		if n.Name == name {
			return n.Id
		}
	}
	return ""
}

func TestUnresolvableSelectionReturnsNilGraph(t *testing.T) {
	src := `class Empty {}`
	o, err := csharp.NewOracle(context.Background(), map[string][]byte{"empty.cs": []byte(src)})
	require.NoError(t, err)

	graph, err := insight.Analyze(context.Background(), o, "empty.cs", 1, 7)
	require.NoError(t, err)
	assert.Nil(t, graph)
}
