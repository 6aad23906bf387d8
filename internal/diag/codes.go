package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Загрузка документов
	DocInfo            Code = 1000
	DocSyntax          Code = 1001
	DocShape           Code = 1002
	DocDuplicateKey    Code = 1003
	DocUnknownField    Code = 1004
	DocEmptyName       Code = 1005
	DocInvalidEndpoint Code = 1006
	DocNotNormalized   Code = 1007

	// Паттерны
	PatInfo              Code = 2000
	PatEmptyGroup        Code = 2001
	PatEmptyItem         Code = 2002
	PatSingleItem        Code = 2003
	PatUnclosedGroup     Code = 2004
	PatNestedGroup       Code = 2005
	PatInvalidRange      Code = 2006
	PatSpliceNotAllowed  Code = 2007
	PatEmptySegment      Code = 2008
	PatTooManyAtoms      Code = 2009
	PatDuplicateAtoms    Code = 2010
	PatEndpointSplit     Code = 2011
	PatUnknownNamed      Code = 2012
	PatInvalidNamed      Code = 2013
	PatUnexpectedClose   Code = 2014
	PatEmptyExpression   Code = 2015
	PatNotLiteral        Code = 2016
	PatInvalidAxisName   Code = 2017
	PatMixedGroupInRange Code = 2018

	// Привязка осей
	AxsInfo             Code = 3000
	AxsMissingAxis      Code = 3001
	AxsLengthMismatch   Code = 3002
	AxsCoordMismatch    Code = 3003
	AxsExpansionLength  Code = 3004
	AxsParamLength      Code = 3005
	AxsDuplicateCoord   Code = 3006
	AxsNamedValueMissed Code = 3007

	// Граф импортов
	ImpInfo            Code = 4000
	ImpFileNotFound    Code = 4001
	ImpAmbiguousImport Code = 4002
	ImpCycle           Code = 4003
	ImpReadError       Code = 4004
	ImpDuplicateSymbol Code = 4005
	ImpInvalidPath     Code = 4006
	ImpDuplicateNS     Code = 4007

	// Разрешение символов
	SymInfo                Code = 5000
	SymUnresolved          Code = 5001
	SymAmbiguous           Code = 5002
	SymUnresolvedQualified Code = 5003
	SymUndefinedVariable   Code = 5004
	SymVariableCycle       Code = 5005
	SymBadInstanceToken    Code = 5006
	SymUnresolvedTop       Code = 5007
	SymNoTop               Code = 5008
	SymBadParameter        Code = 5009

	// IR: атомизация и проверка
	IRInfo               Code = 6000
	IRDuplicateNet       Code = 6001
	IRDuplicateInstance  Code = 6002
	IRDanglingNet        Code = 6003
	IRDanglingInstance   Code = 6004
	IRUnresolvedRef      Code = 6005
	IRDuplicatePort      Code = 6006
	IRUnknownPort        Code = 6007
	IRDefaultOverride    Code = 6008
	IRRecursiveInstance  Code = 6009
	IRPortBoundTwice     Code = 6010
	IRUnknownDefaultNet  Code = 6011
	IRDefaultUnknownPort Code = 6012
	IREndpointPort       Code = 6013
	IRInternalError      Code = 6099
	ObsInfo              Code = 9000
	ObsTimings           Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	DocInfo:                "Document information",
	DocSyntax:              "Malformed document",
	DocShape:               "Unexpected document shape",
	DocDuplicateKey:        "Duplicate mapping key",
	DocUnknownField:        "Unknown field",
	DocEmptyName:           "Empty name",
	DocInvalidEndpoint:     "Invalid endpoint token",
	DocNotNormalized:       "Name not in NFC form",
	PatInfo:                "Pattern information",
	PatEmptyGroup:          "Empty pattern group",
	PatEmptyItem:           "Empty enumeration item",
	PatSingleItem:          "Single-item enumeration",
	PatUnclosedGroup:       "Unclosed pattern group",
	PatNestedGroup:         "Nested pattern group",
	PatInvalidRange:        "Invalid numeric range",
	PatSpliceNotAllowed:    "Splice not allowed here",
	PatEmptySegment:        "Empty splice segment",
	PatTooManyAtoms:        "Pattern expansion too large",
	PatDuplicateAtoms:      "Duplicate atoms in expansion",
	PatEndpointSplit:       "Endpoint must contain exactly one '.'",
	PatUnknownNamed:        "Unknown named pattern",
	PatInvalidNamed:        "Invalid named pattern definition",
	PatUnexpectedClose:     "Unexpected closing delimiter",
	PatEmptyExpression:     "Empty pattern expression",
	PatNotLiteral:          "Expression must expand to one name",
	PatInvalidAxisName:     "Invalid axis name",
	PatMixedGroupInRange:   "Malformed range group",
	AxsInfo:                "Binding information",
	AxsMissingAxis:         "Net axis missing from endpoint",
	AxsLengthMismatch:      "Axis length mismatch",
	AxsCoordMismatch:       "Endpoint coordinate has no net atom",
	AxsExpansionLength:     "Expansion length mismatch",
	AxsParamLength:         "Parameter expansion length mismatch",
	AxsDuplicateCoord:      "Duplicate net coordinate",
	AxsNamedValueMissed:    "Atom value not found on axis",
	ImpInfo:                "Import information",
	ImpFileNotFound:        "Import file not found",
	ImpAmbiguousImport:     "Ambiguous import",
	ImpCycle:               "Import cycle detected",
	ImpReadError:           "Failed to read file",
	ImpDuplicateSymbol:     "Duplicate symbol",
	ImpInvalidPath:         "Invalid import path",
	ImpDuplicateNS:         "Duplicate import namespace",
	SymInfo:                "Symbol information",
	SymUnresolved:          "Unresolved reference",
	SymAmbiguous:           "Ambiguous reference",
	SymUnresolvedQualified: "Unresolved qualified reference",
	SymUndefinedVariable:   "Undefined variable",
	SymVariableCycle:       "Variable reference cycle",
	SymBadInstanceToken:    "Malformed instance declaration",
	SymUnresolvedTop:       "Unresolved top module",
	SymNoTop:               "No top module",
	SymBadParameter:        "Malformed instance parameter",
	IRInfo:                 "IR information",
	IRDuplicateNet:         "Duplicate net name",
	IRDuplicateInstance:    "Duplicate instance name",
	IRDanglingNet:          "Endpoint references unknown net",
	IRDanglingInstance:     "Endpoint references unknown instance",
	IRUnresolvedRef:        "Instance references unknown definition",
	IRDuplicatePort:        "Duplicate port",
	IRUnknownPort:          "Port has no backing net",
	IRDefaultOverride:      "Explicit binding overrides default",
	IRRecursiveInstance:    "Recursive instantiation",
	IRPortBoundTwice:       "Instance port bound to more than one net",
	IRUnknownDefaultNet:    "Default binding references unknown net",
	IRDefaultUnknownPort:   "Default binding names unknown port",
	IREndpointPort:         "Endpoint port not declared by definition",
	IRInternalError:        "Internal IR error",
	ObsInfo:                "Observability information",
	ObsTimings:             "Pipeline timings",
}

// Prefix returns the stage prefix of the code, e.g. "PAT".
func (c Code) Prefix() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "DOC"
	case ic >= 2000 && ic < 3000:
		return "PAT"
	case ic >= 3000 && ic < 4000:
		return "AXS"
	case ic >= 4000 && ic < 5000:
		return "IMP"
	case ic >= 5000 && ic < 6000:
		return "SYM"
	case ic >= 6000 && ic < 7000:
		return "IR"
	case ic >= 9000 && ic < 10000:
		return "OBS"
	}
	return "E"
}

// ID returns the stable string form, e.g. "PAT2010".
func (c Code) ID() string {
	return fmt.Sprintf("%s%04d", c.Prefix(), int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
