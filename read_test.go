package mapper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadRow_RoundTrip(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	in := sampleCitizen()
	row, err := m.WriteRow(in)
	req.NoError(err)

	out, err := ReadRow[*citizen](m, row)
	req.NoError(err)
	req.Equal(in, out)
}

func TestReadRow_LatestWins(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	row := &Row{
		Key: []byte("c1"),
		Columns: map[string]VersionedQualifier{
			"main": {
				"name": {
					10: []byte("stale"),
					20: []byte("old"),
					30: []byte("current"),
				},
			},
		},
	}
	out, err := ReadRow[*citizen](m, row)
	req.NoError(err)
	req.Equal("current", out.Name)
	req.Equal("c1", out.ID)
}

func TestReadRow_Miss(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	t.Run("nil row", func(t *testing.T) {
		t.Parallel()
		out, err := ReadRow[*citizen](m, nil)
		req.NoError(err)
		req.Nil(out)
	})

	t.Run("no cells", func(t *testing.T) {
		t.Parallel()
		out, err := ReadRow[*citizen](m, &Row{Key: []byte("c1")})
		req.NoError(err)
		req.Nil(out)
	})

	t.Run("no key", func(t *testing.T) {
		t.Parallel()
		out, err := ReadRow[*citizen](m, &Row{
			Columns: map[string]VersionedQualifier{
				"main": {"name": {LatestTimestamp: []byte("x")}},
			},
		})
		req.NoError(err)
		req.Nil(out)
	})
}

func TestReadRow_AbsentColumnsKeepDefaults(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	row := &Row{
		Key: []byte("c1"),
		Columns: map[string]VersionedQualifier{
			"main": {"name": {LatestTimestamp: []byte("only name")}},
		},
	}
	out, err := ReadRow[*citizen](m, row)
	req.NoError(err)
	req.Equal("only name", out.Name)
	req.Nil(out.Age)
	req.Nil(out.Salary)
	req.Nil(out.Contacts)
}

func TestReadRow_Versioned(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	in := &citizen{
		ID: "c1",
		Salary: map[int64]*float64{
			10: ptr(900.0),
			20: ptr(1100.0),
			30: ptr(1300.0),
		},
	}
	row, err := m.WriteRow(in)
	req.NoError(err)

	out, err := ReadRow[*citizen](m, row)
	req.NoError(err)
	req.Equal(in.Salary, out.Salary)
}

func TestReadRow_ListQualifierOrder(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	// written unsorted; read back in byte order of the derived qualifiers
	in := &citizen{
		ID: "c1",
		Contacts: []contact{
			{Kind: "phone", Value: "call"},
			{Kind: "email", Value: "write"},
		},
	}
	row, err := m.WriteRow(in)
	req.NoError(err)

	out, err := ReadRow[*citizen](m, row)
	req.NoError(err)
	req.Equal([]contact{
		{Kind: "email", Value: "write"},
		{Kind: "phone", Value: "call"},
	}, out.Contacts)
}

func TestReadRow_ConversionFailure(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	row := &Row{
		Key: []byte("c1"),
		Columns: map[string]VersionedQualifier{
			"main": {
				"name": {LatestTimestamp: []byte("Asha")},
				"age":  {LatestTimestamp: []byte{1, 2, 3}}, // int32 needs 4 bytes
			},
		},
	}
	out, err := ReadRow[*citizen](m, row)
	req.ErrorIs(err, ErrFieldConversion)

	// fields decoded before (and after) the failing one stay assigned
	req.NotNil(out)
	req.Equal("Asha", out.Name)
	req.Nil(out.Age)
}

func TestReadRow_RowKeyParseFailure(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	row := &Row{
		Key: []byte("k"),
		Columns: map[string]VersionedQualifier{
			"main": {"name": {LatestTimestamp: []byte("x")}},
		},
	}
	_, err := ReadRow[*parseFail](m, row)
	req.ErrorIs(err, ErrRowKeyParse)
	req.Contains(err.Error(), `"k"`)
	req.Contains(err.Error(), "string")
}

func TestReadRows_BatchIndependence(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	good := &Row{
		Key: []byte("c1"),
		Columns: map[string]VersionedQualifier{
			"main": {"name": {LatestTimestamp: []byte("ok")}},
		},
	}
	bad := &Row{
		Key: []byte("c2"),
		Columns: map[string]VersionedQualifier{
			"main": {"age": {LatestTimestamp: []byte{9}}},
		},
	}

	records, errs := ReadRows[*citizen](m, []*Row{good, bad, good})
	req.Len(records, 3)

	req.NoError(errs[0])
	req.Equal("ok", records[0].Name)

	req.ErrorIs(errs[1], ErrFieldConversion)

	req.NoError(errs[2])
	req.Equal("ok", records[2].Name)
}
