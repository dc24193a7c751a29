package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ParseHCL decodes an HCL options document:
//
//	env     = "production"
//	sitemap = ["/sitemap.xml"]
//	envs = {
//	  "*"        = { "*" = ["/"] }
//	  production = { "*" = [] }
//	}
//
// Object constructors are walked syntactically so that user-agent order is
// the order written in the file; evaluated cty objects would sort their keys.
func ParseHCL(source, content string) (Options, error) {
	file, diags := hclsyntax.ParseConfig([]byte(content), source, hcl.InitialPos)
	if diags.HasErrors() {
		return Options{}, parseError(source, content, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return Options{}, parseError(source, content, errors.New("unexpected HCL body type"))
	}
	if len(body.Blocks) > 0 {
		b := body.Blocks[0]
		return Options{}, validateError(source, node{line: b.TypeRange.Start.Line}, b.Type,
			fmt.Sprintf("不支持 HCL block：%s", b.Type), "use attributes: envs = { ... }")
	}

	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	root := node{kind: kindMap, line: 1}
	for _, a := range attrs {
		value, err := nodeFromHCL(a.Expr)
		if err != nil {
			return Options{}, parseError(source, content, err)
		}
		root.fields = append(root.fields, field{key: a.Name, value: value})
	}
	return optionsFromNode(source, root)
}

func nodeFromHCL(expr hclsyntax.Expression) (node, error) {
	line := expr.Range().Start.Line
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		n := node{kind: kindMap, line: line}
		for _, item := range e.Items {
			kv, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return node{}, diags
			}
			kv, err := convert.Convert(kv, cty.String)
			if err != nil || kv.IsNull() || !kv.IsKnown() {
				return node{}, fmt.Errorf("line %d: object key must be a string", item.KeyExpr.Range().Start.Line)
			}
			key := kv.AsString()
			if n.lookup(key) >= 0 {
				return node{}, fmt.Errorf("line %d: duplicate key %q", item.KeyExpr.Range().Start.Line, key)
			}
			value, err := nodeFromHCL(item.ValueExpr)
			if err != nil {
				return node{}, err
			}
			n.fields = append(n.fields, field{key: key, value: value})
		}
		return n, nil
	case *hclsyntax.TupleConsExpr:
		n := node{kind: kindList, line: line}
		for _, item := range e.Exprs {
			value, err := nodeFromHCL(item)
			if err != nil {
				return node{}, err
			}
			n.items = append(n.items, value)
		}
		return n, nil
	default:
		v, diags := expr.Value(nil)
		if diags.HasErrors() {
			return node{}, diags
		}
		return nodeFromCty(v, line)
	}
}

func nodeFromCty(v cty.Value, line int) (node, error) {
	if v.IsNull() {
		return node{kind: kindNull, line: line}, nil
	}
	if !v.IsWhollyKnown() {
		return node{}, fmt.Errorf("line %d: value is not known", line)
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return node{kind: kindString, text: v.AsString(), line: line}, nil
	case ty == cty.Bool:
		return node{kind: kindBool, truth: v.True(), line: line}, nil
	case ty == cty.Number:
		return node{kind: kindNumber, text: v.AsBigFloat().Text('f', -1), line: line}, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		n := node{kind: kindList, line: line}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := nodeFromCty(ev, line)
			if err != nil {
				return node{}, err
			}
			n.items = append(n.items, item)
		}
		return n, nil
	case ty.IsObjectType() || ty.IsMapType():
		n := node{kind: kindMap, line: line}
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			item, err := nodeFromCty(ev, line)
			if err != nil {
				return node{}, err
			}
			n.fields = append(n.fields, field{key: k.AsString(), value: item})
		}
		return n, nil
	default:
		return node{}, fmt.Errorf("line %d: unsupported value type %s", line, ty.FriendlyName())
	}
}
