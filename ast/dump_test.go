package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	inner := NewBody()
	inner.Push(attrStructure("count", NewNumberLit(NewIntNumber(3))))

	body := NewBody()
	body.Push(attrStructure("name", NewStringLit("web")))
	body.Push(Structure{Block: NewBlock("svc", inner)})

	out := Dump(body)
	require.Contains(t, out, "Attribute(name)")
	require.Contains(t, out, `String("web")`)
	require.Contains(t, out, "Block(svc, [])")
	require.Contains(t, out, "Attribute(count)")
	require.Contains(t, out, "Number(3)")
}
