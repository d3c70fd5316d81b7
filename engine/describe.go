package engine

import (
	"fmt"

	"github.com/vegasq/datatad/format"
	"github.com/vegasq/datatad/reader"
)

// Describe reports the columns of one file as the engine sees them.
// Workbooks are described after retyping, i.e. with the types a typed
// export would write.
func (s *Session) Describe(path string, tok format.Token, opts reader.WorkbookOptions) ([]reader.SchemaInfo, error) {
	if err := s.check(); err != nil {
		return nil, readError(path, err)
	}

	switch format.Normalize(tok) {
	case format.Parquet:
		infos, err := reader.ExtractParquetSchema(path)
		if err != nil {
			return nil, readError(path, err)
		}
		return infos, nil
	case format.CSV:
		t, err := s.ReadDelimited(path, 0)
		if err != nil {
			return nil, err
		}
		return reader.Describe(t), nil
	case format.JSON:
		t, err := s.ReadJSON(path)
		if err != nil {
			return nil, err
		}
		return reader.Describe(t), nil
	case format.Excel:
		raw, err := s.ReadWorkbook(path, opts)
		if err != nil {
			return nil, err
		}
		typed, err := s.Retype(raw)
		if err != nil {
			return nil, readError(path, err)
		}
		return reader.Describe(typed), nil
	default:
		return nil, readError(path, fmt.Errorf("unsupported format %s", tok))
	}
}
