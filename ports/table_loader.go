package ports

import (
	"context"

	"rankboard/domain/table"
)

// TableLoader reads one rectangular range of a workbook sheet into a Table.
// Returned tables are shared-immutable: implementations may hand the same
// instance to several callers.
type TableLoader interface {
	Load(ctx context.Context, req table.LoadRequest) (*table.Table, error)
}
