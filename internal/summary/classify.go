// # internal/summary/classify.go
package summary

import (
	"strings"
)

// languageProfile maps grammar-specific node kinds to semantic roles.
// Unknown kinds fall through to RoleOther and render verbatim, so a novel
// grammar construct can never crash classification.
type languageProfile struct {
	roles map[string]Role
	// bodyKinds are child kinds that hold a declaration's member/statement
	// body (brace-delimited in the C family, an indented suite in Python).
	bodyKinds map[string]bool
	// wrapperKinds take the role of their first classified child
	// (template_declaration, decorated_definition, export_statement).
	wrapperKinds map[string]bool
	// noiseKinds carry no semantic weight: stray semicolons and other
	// formatting-layer tokens that must not influence decisions.
	noiseKinds map[string]bool
	// accessLabelKinds mark visibility sections inside a class body.
	accessLabelKinds map[string]bool
}

var profiles = map[string]*languageProfile{
	"cpp": {
		roles: map[string]Role{
			"namespace_definition":       RoleNamespace,
			"class_specifier":            RoleClassLike,
			"struct_specifier":           RoleClassLike,
			"union_specifier":            RoleClassLike,
			"enum_specifier":             RoleClassLike,
			"function_definition":        RoleFunction,
			"field_declaration":          RoleField,
			"comment":                    RoleComment,
			"preproc_include":            RoleDirective,
			"preproc_def":                RoleDirective,
			"preproc_function_def":       RoleDirective,
			"preproc_ifdef":              RoleDirective,
			"preproc_if":                 RoleDirective,
			"preproc_call":               RoleDirective,
			"using_declaration":          RoleDirective,
			"alias_declaration":          RoleDirective,
			"namespace_alias_definition": RoleDirective,
			"type_definition":            RoleField,
			"declaration":                RoleStatement,
			"expression_statement":       RoleStatement,
			"if_statement":               RoleStatement,
			"for_statement":              RoleStatement,
			"for_range_loop":             RoleStatement,
			"while_statement":            RoleStatement,
			"do_statement":               RoleStatement,
			"switch_statement":           RoleStatement,
			"try_statement":              RoleStatement,
			"return_statement":           RoleStatement,
			"labeled_statement":          RoleStatement,
			"goto_statement":             RoleStatement,
			"friend_declaration":         RoleField,
			"enumerator":                 RoleField,
		},
		bodyKinds: map[string]bool{
			"field_declaration_list": true,
			"declaration_list":       true,
			"compound_statement":     true,
			"enumerator_list":        true,
		},
		wrapperKinds: map[string]bool{
			"template_declaration": true,
		},
		noiseKinds: map[string]bool{
			"empty_declaration": true,
			"empty_statement":   true,
			";":                 true,
		},
		accessLabelKinds: map[string]bool{
			"access_specifier": true,
		},
	},
	"go": {
		roles: map[string]Role{
			"package_clause":       RoleDirective,
			"import_declaration":   RoleDirective,
			"function_declaration": RoleFunction,
			"method_declaration":   RoleFunction,
			"func_literal":         RoleFunction,
			"type_declaration":     RoleClassLike,
			"var_declaration":      RoleField,
			"const_declaration":    RoleField,
			"field_declaration":    RoleField,
			"comment":              RoleComment,
			"expression_statement": RoleStatement,
			"if_statement":         RoleStatement,
			"for_statement":        RoleStatement,
			"go_statement":         RoleStatement,
			"return_statement":     RoleStatement,
		},
		bodyKinds: map[string]bool{
			"block":                  true,
			"field_declaration_list": true,
		},
		wrapperKinds: map[string]bool{},
		noiseKinds: map[string]bool{
			";": true,
		},
		accessLabelKinds: map[string]bool{},
	},
	"python": {
		roles: map[string]Role{
			"import_statement":        RoleDirective,
			"import_from_statement":   RoleDirective,
			"future_import_statement": RoleDirective,
			"function_definition":     RoleFunction,
			"class_definition":        RoleClassLike,
			"comment":                 RoleComment,
			"expression_statement":    RoleStatement,
			"assignment":              RoleField,
			"if_statement":            RoleStatement,
			"for_statement":           RoleStatement,
			"while_statement":         RoleStatement,
			"try_statement":           RoleStatement,
			"with_statement":          RoleStatement,
			"return_statement":        RoleStatement,
			"global_statement":        RoleStatement,
		},
		bodyKinds: map[string]bool{
			"block": true,
		},
		wrapperKinds: map[string]bool{
			"decorated_definition": true,
		},
		noiseKinds: map[string]bool{
			";": true,
		},
		accessLabelKinds: map[string]bool{},
	},
	"java": {
		roles: map[string]Role{
			"package_declaration":         RoleDirective,
			"import_declaration":          RoleDirective,
			"class_declaration":           RoleClassLike,
			"interface_declaration":       RoleClassLike,
			"enum_declaration":            RoleClassLike,
			"record_declaration":          RoleClassLike,
			"annotation_type_declaration": RoleClassLike,
			"method_declaration":          RoleFunction,
			"constructor_declaration":     RoleFunction,
			"field_declaration":           RoleField,
			"enum_constant":               RoleField,
			"line_comment":                RoleComment,
			"block_comment":               RoleComment,
			"expression_statement":        RoleStatement,
			"if_statement":                RoleStatement,
			"for_statement":               RoleStatement,
			"while_statement":             RoleStatement,
			"try_statement":               RoleStatement,
		},
		bodyKinds: map[string]bool{
			"class_body":       true,
			"interface_body":   true,
			"enum_body":        true,
			"block":            true,
			"constructor_body": true,
		},
		wrapperKinds: map[string]bool{},
		noiseKinds: map[string]bool{
			";": true,
		},
		accessLabelKinds: map[string]bool{},
	},
	"rust": {
		roles: map[string]Role{
			"use_declaration":          RoleDirective,
			"extern_crate_declaration": RoleDirective,
			"attribute_item":           RoleDirective,
			"mod_item":                 RoleNamespace,
			"function_item":            RoleFunction,
			"struct_item":              RoleClassLike,
			"enum_item":                RoleClassLike,
			"union_item":               RoleClassLike,
			"trait_item":               RoleClassLike,
			"impl_item":                RoleClassLike,
			"field_declaration":        RoleField,
			"const_item":               RoleField,
			"static_item":              RoleField,
			"type_item":                RoleField,
			"line_comment":             RoleComment,
			"block_comment":            RoleComment,
			"expression_statement":     RoleStatement,
			"let_declaration":          RoleStatement,
			"macro_invocation":         RoleStatement,
		},
		bodyKinds: map[string]bool{
			"declaration_list":       true,
			"field_declaration_list": true,
			"enum_variant_list":      true,
			"block":                  true,
		},
		wrapperKinds: map[string]bool{},
		noiseKinds: map[string]bool{
			";":               true,
			"empty_statement": true,
		},
		accessLabelKinds: map[string]bool{},
	},
	"javascript": {
		roles: map[string]Role{
			"import_statement":               RoleDirective,
			"class_declaration":              RoleClassLike,
			"function_declaration":           RoleFunction,
			"generator_function_declaration": RoleFunction,
			"method_definition":              RoleFunction,
			"field_definition":               RoleField,
			"public_field_definition":        RoleField,
			"comment":                        RoleComment,
			"lexical_declaration":            RoleField,
			"variable_declaration":           RoleField,
			"expression_statement":           RoleStatement,
			"if_statement":                   RoleStatement,
			"for_statement":                  RoleStatement,
			"while_statement":                RoleStatement,
			"try_statement":                  RoleStatement,
		},
		bodyKinds: map[string]bool{
			"class_body":      true,
			"statement_block": true,
		},
		wrapperKinds: map[string]bool{
			"export_statement": true,
		},
		noiseKinds: map[string]bool{
			";":               true,
			"empty_statement": true,
		},
		accessLabelKinds: map[string]bool{},
	},
}

func init() {
	// TypeScript extends the JavaScript profile with its own declarations.
	ts := &languageProfile{
		roles:            map[string]Role{},
		bodyKinds:        map[string]bool{},
		wrapperKinds:     map[string]bool{},
		noiseKinds:       map[string]bool{},
		accessLabelKinds: map[string]bool{},
	}
	js := profiles["javascript"]
	for k, v := range js.roles {
		ts.roles[k] = v
	}
	for k := range js.bodyKinds {
		ts.bodyKinds[k] = true
	}
	for k := range js.wrapperKinds {
		ts.wrapperKinds[k] = true
	}
	for k := range js.noiseKinds {
		ts.noiseKinds[k] = true
	}
	ts.roles["interface_declaration"] = RoleClassLike
	ts.roles["enum_declaration"] = RoleClassLike
	ts.roles["type_alias_declaration"] = RoleField
	ts.roles["abstract_class_declaration"] = RoleClassLike
	ts.roles["abstract_method_signature"] = RoleFunction
	ts.roles["method_signature"] = RoleFunction
	ts.roles["property_signature"] = RoleField
	ts.roles["internal_module"] = RoleNamespace
	ts.bodyKinds["interface_body"] = true
	ts.bodyKinds["enum_body"] = true
	profiles["typescript"] = ts
}

// fallbackProfile serves unknown languages: everything classifies Other and
// renders verbatim.
var fallbackProfile = &languageProfile{
	roles:            map[string]Role{},
	bodyKinds:        map[string]bool{},
	wrapperKinds:     map[string]bool{},
	noiseKinds:       map[string]bool{";": true},
	accessLabelKinds: map[string]bool{},
}

func profileFor(language string) *languageProfile {
	if p, ok := profiles[language]; ok {
		return p
	}
	return fallbackProfile
}

// declarationOf unwraps wrapper nodes (template declarations, decorators,
// export statements) to the declaration they carry.
func (p *languageProfile) declarationOf(n *SyntaxNode) *SyntaxNode {
	for p.wrapperKinds[n.Kind] {
		var inner *SyntaxNode
		for _, ch := range n.Children {
			if p.wrapperKinds[ch.Kind] {
				inner = ch
				break
			}
			if r, ok := p.roles[ch.Kind]; ok && r != RoleComment {
				inner = ch
				break
			}
		}
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

// bodyOf finds the declaration's body, looking through wrappers so a
// template class or exported function prunes like its plain counterpart.
func (p *languageProfile) bodyOf(n *SyntaxNode) *SyntaxNode {
	return p.declarationOf(n).Body(p.bodyKinds)
}

// Classify assigns a semantic role, visibility, and significance to every
// node of the tree. Pure function of node kind and immediate context;
// deterministic for identical trees.
func Classify(t *Tree) {
	if t.Root == nil {
		return
	}
	c := &classifier{t: t, p: profileFor(t.Language)}
	c.walk(t.Root, false, VisibilityNone)
}

type classifier struct {
	t *Tree
	p *languageProfile
}

func (c *classifier) walk(n *SyntaxNode, inClassBody bool, vis Visibility) {
	n.Role = c.roleOf(n, inClassBody)
	n.Visibility = vis
	n.Significance = significanceOf(n.Role)

	if n.Role == RoleClassLike || n.Role == RoleNamespace {
		body := n.Body(c.p.bodyKinds)
		childVis := defaultVisibility(n.Kind)
		for _, ch := range n.Children {
			if ch != body {
				c.walk(ch, false, vis)
				continue
			}
			for _, m := range ch.Children {
				if c.p.accessLabelKinds[m.Kind] {
					childVis = visibilityOf(string(c.t.Slice(m)))
					m.Role = RoleField
					m.Visibility = childVis
					m.Significance = significanceOf(RoleField)
					continue
				}
				c.walk(m, n.Role == RoleClassLike, childVis)
			}
		}
		return
	}

	for _, ch := range n.Children {
		c.walk(ch, false, vis)
	}
}

func (c *classifier) roleOf(n *SyntaxNode, inClassBody bool) Role {
	if c.p.wrapperKinds[n.Kind] {
		// A template or decorator wrapper takes its declaration's role.
		for _, ch := range n.Children {
			if r := c.roleOf(ch, inClassBody); r != RoleOther && r != RoleComment {
				return r
			}
		}
		return RoleOther
	}

	role, ok := c.p.roles[n.Kind]
	if !ok {
		return RoleOther
	}

	// A declaration without a compound body inside a class body is a field;
	// the same kind with a body is a method.
	if inClassBody && role == RoleStatement {
		if n.Body(c.p.bodyKinds) != nil {
			return RoleFunction
		}
		return RoleField
	}
	return role
}

// defaultVisibility follows the C++ rule: class members default private,
// struct members public. Other languages carry no visibility sections.
func defaultVisibility(kind string) Visibility {
	switch kind {
	case "class_specifier":
		return VisibilityPrivate
	case "struct_specifier":
		return VisibilityPublic
	default:
		return VisibilityNone
	}
}

func significanceOf(r Role) int {
	switch r {
	case RoleClassLike, RoleNamespace:
		return 3
	case RoleFunction:
		return 2
	case RoleField, RoleStatement, RoleOther:
		return 1
	default: // comments, directives: dropped first under pressure
		return 0
	}
}

func visibilityOf(label string) Visibility {
	switch strings.TrimSuffix(strings.TrimSpace(label), ":") {
	case "public":
		return VisibilityPublic
	case "protected":
		return VisibilityProtected
	case "private":
		return VisibilityPrivate
	default:
		return VisibilityNone
	}
}
