package proto

// RelCommon carries the fields shared by every operator. At most one of
// Direct and Emit is set; neither set means direct.
type RelCommon struct {
	Direct *RelCommonDirect `yaml:"direct,omitempty"`
	Emit   *RelCommonEmit   `yaml:"emit,omitempty"`
}

type RelCommonDirect struct{}

// RelCommonEmit selects, in order, the fields of the operator's internal
// schema that make up its output.
type RelCommonEmit struct {
	OutputMapping []int32 `yaml:"output_mapping,flow"`
}

// Rel is a node of the operator tree. Exactly one field is set.
type Rel struct {
	Read      *ReadRel      `yaml:"read,omitempty"`
	Filter    *FilterRel    `yaml:"filter,omitempty"`
	Fetch     *FetchRel     `yaml:"fetch,omitempty"`
	Aggregate *AggregateRel `yaml:"aggregate,omitempty"`
	Sort      *SortRel      `yaml:"sort,omitempty"`
	Join      *JoinRel      `yaml:"join,omitempty"`
	Project   *ProjectRel   `yaml:"project,omitempty"`
	Set       *SetRel       `yaml:"set,omitempty"`
	Cross     *CrossRel     `yaml:"cross,omitempty"`
}

type ReadRel struct {
	Common     *RelCommon   `yaml:"common,omitempty"`
	BaseSchema *NamedStruct `yaml:"base_schema,omitempty"`
	Filter     *Expression  `yaml:"filter,omitempty"`
	NamedTable *NamedTable  `yaml:"named_table,omitempty"`
	LocalFiles *LocalFiles  `yaml:"local_files,omitempty"`
}

type NamedTable struct {
	Names []string `yaml:"names,flow"`
}

type LocalFiles struct {
	Items []*FileOrFiles `yaml:"items"`
}

type FileOrFiles struct {
	URIFile string `yaml:"uri_file,omitempty"`
	URIPath string `yaml:"uri_path,omitempty"`
}

type FilterRel struct {
	Common    *RelCommon  `yaml:"common,omitempty"`
	Input     *Rel        `yaml:"input,omitempty"`
	Condition *Expression `yaml:"condition,omitempty"`
}

type FetchRel struct {
	Common *RelCommon `yaml:"common,omitempty"`
	Input  *Rel       `yaml:"input,omitempty"`
	Offset int64      `yaml:"offset,omitempty"`
	Count  int64      `yaml:"count,omitempty"`
}

type AggregateRel struct {
	Common    *RelCommon  `yaml:"common,omitempty"`
	Input     *Rel        `yaml:"input,omitempty"`
	Groupings []*Grouping `yaml:"groupings,omitempty"`
	Measures  []*Measure  `yaml:"measures,omitempty"`
}

type Grouping struct {
	GroupingExpressions []*Expression `yaml:"grouping_expressions"`
}

type Measure struct {
	Measure *AggregateFunction `yaml:"measure,omitempty"`
	Filter  *Expression        `yaml:"filter,omitempty"`
}

type SortRel struct {
	Common *RelCommon   `yaml:"common,omitempty"`
	Input  *Rel         `yaml:"input,omitempty"`
	Sorts  []*SortField `yaml:"sorts,omitempty"`
}

type SortField struct {
	Expr      *Expression   `yaml:"expr,omitempty"`
	Direction SortDirection `yaml:"direction,omitempty"`
}

type JoinRel struct {
	Common         *RelCommon  `yaml:"common,omitempty"`
	Left           *Rel        `yaml:"left,omitempty"`
	Right          *Rel        `yaml:"right,omitempty"`
	Expression     *Expression `yaml:"expression,omitempty"`
	PostJoinFilter *Expression `yaml:"post_join_filter,omitempty"`
	Type           JoinType    `yaml:"type,omitempty"`
}

type ProjectRel struct {
	Common      *RelCommon    `yaml:"common,omitempty"`
	Input       *Rel          `yaml:"input,omitempty"`
	Expressions []*Expression `yaml:"expressions,omitempty"`
}

type SetRel struct {
	Common *RelCommon `yaml:"common,omitempty"`
	Inputs []*Rel     `yaml:"inputs,omitempty"`
	Op     SetOp      `yaml:"op,omitempty"`
}

type CrossRel struct {
	Common *RelCommon `yaml:"common,omitempty"`
	Left   *Rel       `yaml:"left,omitempty"`
	Right  *Rel       `yaml:"right,omitempty"`
}
