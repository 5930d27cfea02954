package ast

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Dump renders b's node structure as an indented tree, for diagnosing
// round-trip and precedence-normalization bugs. It is a developer tool,
// not part of the encoder.
func Dump(b *Body) string {
	root := treeprint.New()
	root.SetValue("Body")
	dumpBody(root, b)
	return root.String()
}

func dumpBody(t treeprint.Tree, b *Body) {
	if b == nil {
		return
	}
	for _, s := range b.Structures {
		switch {
		case s.Attribute != nil:
			branch := t.AddBranch(fmt.Sprintf("Attribute(%s)", s.Attribute.Name.Value))
			dumpExpr(branch, s.Attribute.Value)
		case s.Block != nil:
			labels := make([]string, len(s.Block.Labels))
			for i, l := range s.Block.Labels {
				labels[i] = l.Value()
			}
			branch := t.AddBranch(fmt.Sprintf("Block(%s, %v)", s.Block.Name.Value, labels))
			if s.Block.Body.Multiline != nil {
				dumpBody(branch, s.Block.Body.Multiline)
			} else if s.Block.Body.Oneline != nil {
				ob := branch.AddBranch(fmt.Sprintf("Attribute(%s)", s.Block.Body.Oneline.Name.Value))
				dumpExpr(ob, s.Block.Body.Oneline.Value)
			}
		}
	}
}

func dumpExpr(t treeprint.Tree, e Expression) {
	if e == nil {
		t.AddNode("<nil>")
		return
	}
	switch v := e.(type) {
	case *NullLit:
		t.AddNode("Null")
	case *BoolLit:
		t.AddNode(fmt.Sprintf("Bool(%v)", v.Value))
	case *NumberLit:
		t.AddNode(fmt.Sprintf("Number(%s)", v.Text()))
	case *StringLit:
		t.AddNode(fmt.Sprintf("String(%q)", v.Value))
	case *Variable:
		t.AddNode(fmt.Sprintf("Variable(%s)", v.Name))
	case *ArrayCons:
		branch := t.AddBranch("Array")
		for _, el := range v.Elems {
			dumpExpr(branch, el)
		}
	case *ObjectCons:
		branch := t.AddBranch("Object")
		for _, it := range v.Items {
			var key string
			if it.Key.IsIdent() {
				key = string(it.Key.Ident.Value)
			} else {
				key = "<expr>"
			}
			ib := branch.AddBranch(fmt.Sprintf("Item(%s)", key))
			dumpExpr(ib, it.Value)
		}
	case *StringTemplate:
		t.AddNode("StringTemplate")
	case *HeredocTemplate:
		t.AddNode(fmt.Sprintf("Heredoc(%s)", v.Delimiter))
	case *Parenthesis:
		branch := t.AddBranch("Parenthesis")
		dumpExpr(branch, v.Inner)
	case *Traversal:
		branch := t.AddBranch(fmt.Sprintf("Traversal(%d ops)", len(v.Operators)))
		dumpExpr(branch, v.Expr)
	case *FuncCall:
		branch := t.AddBranch(fmt.Sprintf("FuncCall(%s)", v.Name))
		for _, a := range v.Args {
			dumpExpr(branch, a)
		}
	case *UnaryOp:
		branch := t.AddBranch("UnaryOp")
		dumpExpr(branch, v.Expr)
	case *BinaryOp:
		branch := t.AddBranch(fmt.Sprintf("BinaryOp(%s)", v.Op.Value))
		dumpExpr(branch, v.LHS)
		dumpExpr(branch, v.RHS)
	case *Conditional:
		branch := t.AddBranch("Conditional")
		dumpExpr(branch, v.Cond)
		dumpExpr(branch, v.True)
		dumpExpr(branch, v.False)
	case *ForExpr:
		branch := t.AddBranch("ForExpr")
		dumpExpr(branch, v.Intro.Collection)
		dumpExpr(branch, v.ValueExpr)
	default:
		t.AddNode(fmt.Sprintf("%T", e))
	}
}
