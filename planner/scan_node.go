package planner

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"mit.edu/dsg/planval/proto"
	"mit.edu/dsg/planval/schema"
)

// ReadNode is a leaf that reads a named table or a set of files. Its output
// is its declared base schema.
type ReadNode struct {
	relCommon
	BaseSchema schema.NamedStruct
	// Filter is an optional hint the reader may use to skip rows.
	Filter     Expr
	NamedTable []string
	LocalFiles []*proto.FileOrFiles
}

func (b *Builder) buildRead(c relCommon, raw *proto.ReadRel) (*ReadNode, error) {
	if raw.BaseSchema == nil {
		return nil, invalid(c, "read has no base schema")
	}
	base, err := schema.FromProto(raw.BaseSchema)
	if err != nil {
		return nil, c.wrap(err)
	}
	n := &ReadNode{relCommon: c, BaseSchema: base}
	switch {
	case raw.NamedTable != nil && raw.LocalFiles != nil:
		return nil, invalid(c, "read sets both a named table and local files")
	case raw.NamedTable != nil:
		if len(raw.NamedTable.Names) == 0 {
			return nil, invalid(c, "named table has no names")
		}
		n.NamedTable = raw.NamedTable.Names
	case raw.LocalFiles != nil:
		if len(raw.LocalFiles.Items) == 0 {
			return nil, invalid(c, "local files has no items")
		}
		for i, item := range raw.LocalFiles.Items {
			if item == nil || (item.URIFile == "") == (item.URIPath == "") {
				return nil, invalid(c, "local file %d must set exactly one of uri_file and uri_path", i)
			}
		}
		n.LocalFiles = raw.LocalFiles.Items
	default:
		return nil, invalid(c, "read has no read type")
	}
	if n.Filter, err = b.optionalExpr(raw.Filter); err != nil {
		return nil, c.wrap(err)
	}
	return n, nil
}

func (n *ReadNode) OutputSchema() (schema.NamedStruct, error) {
	if n.Filter != nil {
		if err := checkRefs(n.Filter, n.BaseSchema); err != nil {
			return schema.NamedStruct{}, n.wrap(errors.Wrap(err, "filter"))
		}
	}
	return n.finish(n.BaseSchema)
}

func (n *ReadNode) Children() []Node {
	return nil
}

func (n *ReadNode) String() string {
	if n.NamedTable != nil {
		return n.describe("read", strings.Join(n.NamedTable, "."))
	}
	return n.describe("read", fmt.Sprintf("%d files", len(n.LocalFiles)))
}

func (n *ReadNode) ToProto() *proto.Rel {
	raw := &proto.ReadRel{
		Common:     n.commonToProto(),
		BaseSchema: n.BaseSchema.ToProto(),
		Filter:     exprToProto(n.Filter),
	}
	if n.NamedTable != nil {
		raw.NamedTable = &proto.NamedTable{Names: n.NamedTable}
	} else {
		raw.LocalFiles = &proto.LocalFiles{Items: n.LocalFiles}
	}
	return &proto.Rel{Read: raw}
}
