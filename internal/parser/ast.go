// Package parser provides a declaration-level Java parser that produces an
// arena-backed syntax tree with byte offsets into the original text.
package parser

import (
	"github.com/donaldgifford/jrefactor/internal/source"
)

// Kind classifies a node in the tree.
type Kind uint8

const (
	// KindInvalid is the zero Kind; no node carries it.
	KindInvalid Kind = iota
	// KindCompilationUnit is the root of a parsed file.
	KindCompilationUnit
	// KindPackage is a package declaration.
	KindPackage
	// KindImport is an import declaration.
	KindImport
	// KindType is a class, interface or record declaration.
	KindType
	// KindEnum is an enum declaration.
	KindEnum
	// KindAnnotationType is an @interface declaration.
	KindAnnotationType
	// KindEnumConstant is a constant inside an enum body.
	KindEnumConstant
	// KindField is a field declaration (one or more variables).
	KindField
	// KindMethod is a method or constructor declaration.
	KindMethod
	// KindInitializer is a static or instance initializer block.
	KindInitializer
	// KindAnnotationMember is a method-like member of an @interface.
	KindAnnotationMember
	// KindParameter is a formal parameter of a method or constructor.
	KindParameter
	// KindModifier is a modifier keyword such as "public".
	KindModifier
	// KindAnnotation is an annotation usage such as "@Override".
	KindAnnotation

	kindCount
)

// KindCount is the number of valid kinds, usable as a table size.
const KindCount = int(kindCount)

var kindNames = [...]string{
	KindInvalid:          "Invalid",
	KindCompilationUnit:  "CompilationUnit",
	KindPackage:          "Package",
	KindImport:           "Import",
	KindType:             "Type",
	KindEnum:             "Enum",
	KindAnnotationType:   "AnnotationType",
	KindEnumConstant:     "EnumConstant",
	KindField:            "Field",
	KindMethod:           "Method",
	KindInitializer:      "Initializer",
	KindAnnotationMember: "AnnotationMember",
	KindParameter:        "Parameter",
	KindModifier:         "Modifier",
	KindAnnotation:       "Annotation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsBodyDeclaration reports whether nodes of this kind are members of a
// type body (enum constants excluded).
func (k Kind) IsBodyDeclaration() bool {
	switch k {
	case KindType, KindEnum, KindAnnotationType, KindField, KindMethod,
		KindInitializer, KindAnnotationMember:
		return true
	default:
		return false
	}
}

// IsTypeDeclaration reports whether the kind declares a type with a body.
func (k Kind) IsTypeDeclaration() bool {
	return k == KindType || k == KindEnum || k == KindAnnotationType
}

// Flags carry kind-specific facts about a node.
type Flags uint8

const (
	// FlagInterface marks a KindType node declared with "interface".
	FlagInterface Flags = 1 << iota
	// FlagRecord marks a KindType node declared with "record".
	FlagRecord
	// FlagHasBody marks a method, constructor or enum constant with a body.
	FlagHasBody
	// FlagConstructor marks a KindMethod node that is a constructor.
	FlagConstructor
	// FlagVarargs marks a KindParameter declared with "...".
	FlagVarargs
)

// NodeID identifies a node within its Tree. IDs are 1-based; NoNode is zero.
type NodeID uint32

// NoNode is the absent NodeID.
const NoNode NodeID = 0

// IsValid reports whether id refers to a node.
func (id NodeID) IsValid() bool { return id != NoNode }

// Node is one element of the tree. Parent is a non-owning back-reference.
type Node struct {
	Kind    Kind
	Loc     source.Location
	Parent  NodeID
	Name    string  // Declared name, annotation name, or modifier text.
	Keyword Keyword // Set for KindModifier nodes.
	Flags   Flags

	// Body is the location of the "{...}" block of types, methods,
	// initializers and enum constants with bodies.
	Body source.Location

	Modifiers []NodeID // Annotations and modifier keywords, in source order.
	Params    []NodeID
	Members   []NodeID // Body declarations and enum constants, in source order.
}

// Has reports whether all bits of f are set.
func (n *Node) Has(f Flags) bool {
	return n.Flags&f == f
}

// CommentKind distinguishes comment syntaxes.
type CommentKind uint8

const (
	// LineComment is a "//" comment.
	LineComment CommentKind = iota
	// BlockComment is a "/* */" comment.
	BlockComment
	// DocComment is a "/** */" comment.
	DocComment
)

// Comment is a comment token. The tree never attaches comments to nodes.
type Comment struct {
	Kind CommentKind
	Loc  source.Location
}

// ListProperty names an ordered child list of a node.
type ListProperty uint8

const (
	// ListModifiers holds modifier keywords only.
	ListModifiers ListProperty = iota
	// ListExtendedModifiers holds annotations and modifier keywords.
	ListExtendedModifiers
	// ListParameters holds formal parameters.
	ListParameters
	// ListMembers holds body declarations and enum constants.
	ListMembers
)

func (p ListProperty) String() string {
	switch p {
	case ListModifiers:
		return "modifiers"
	case ListExtendedModifiers:
		return "extendedModifiers"
	case ListParameters:
		return "parameters"
	case ListMembers:
		return "members"
	default:
		return "list(?)"
	}
}
