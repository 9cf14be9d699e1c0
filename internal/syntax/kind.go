package syntax

// Kind is the closed set of node kinds the lint engine dispatches on.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindDocument
	KindVersionStatement
	KindTask
	KindWorkflow
	KindCommandSection
	KindInputSection
	KindOutputSection
	KindRuntimeSection
	KindMetaSection
	KindDeclaration
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindVersionStatement:
		return "VersionStatement"
	case KindTask:
		return "Task"
	case KindWorkflow:
		return "Workflow"
	case KindCommandSection:
		return "CommandSection"
	case KindInputSection:
		return "InputSection"
	case KindOutputSection:
		return "OutputSection"
	case KindRuntimeSection:
		return "RuntimeSection"
	case KindMetaSection:
		return "MetaSection"
	case KindDeclaration:
		return "Declaration"
	}
	return "Unknown"
}
