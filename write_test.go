package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/litetable/litetable-mapper/codec"
)

func TestWriteRow(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	row, err := m.WriteRow(sampleCitizen())
	req.NoError(err)
	req.Equal([]byte("citizen#1"), row.Key)
	req.Equal([]string{"contacts", "history", "main"}, row.Families())

	req.Equal([]byte("Asha"), row.Columns["main"]["name"][LatestTimestamp])
	req.Len(row.Columns["main"]["age"][LatestTimestamp], 4)

	// versioned cells keep their own timestamps
	req.Len(row.Columns["history"]["salary"], 2)
	req.Contains(row.Columns["history"]["salary"], int64(10))
	req.Contains(row.Columns["history"]["salary"], int64(20))

	// one qualifier per list element, named by the element itself
	req.Equal([]string{"email", "phone"}, row.Columns["contacts"].Qualifiers())
}

func TestWriteRow_Omission(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	t.Run("zero-length values never become columns", func(t *testing.T) {
		t.Parallel()
		row, err := m.WriteRow(&citizen{ID: "c1", Name: "", Age: ptr(int32(3))})
		req.NoError(err)
		req.NotContains(row.Columns["main"], "name")
		req.Contains(row.Columns["main"], "age")
	})

	t.Run("nil fields never become columns", func(t *testing.T) {
		t.Parallel()
		row, err := m.WriteRow(&citizen{ID: "c1", Name: "n"})
		req.NoError(err)
		req.NotContains(row.Columns["main"], "age")
		req.NotContains(row.Columns, "history")
		req.NotContains(row.Columns, "contacts")
	})

	t.Run("row key alone is not a record", func(t *testing.T) {
		t.Parallel()
		_, err := m.WriteRow(&citizen{ID: "c1"})
		req.ErrorIs(err, ErrAllColumnsEmpty)
	})
}

func TestWriteRow_RowKey(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	t.Run("empty row key", func(t *testing.T) {
		t.Parallel()
		_, err := m.WriteRow(&citizen{Name: "n"})
		req.ErrorIs(err, ErrRowKeyEmpty)
	})

	t.Run("compose failure", func(t *testing.T) {
		t.Parallel()
		_, err := m.WriteRow(&composeFail{ID: "x", Name: "n"})
		req.ErrorIs(err, ErrRowKeyCompose)
	})
}

func TestWriteRow_Versioned(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	t.Run("present but empty history fails", func(t *testing.T) {
		t.Parallel()
		_, err := m.WriteRow(&citizen{ID: "c1", Name: "n", Salary: map[int64]*float64{}})
		req.ErrorIs(err, ErrVersionedFieldEmpty)
	})

	t.Run("nil entries are skipped", func(t *testing.T) {
		t.Parallel()
		row, err := m.WriteRow(&citizen{
			ID:     "c1",
			Salary: map[int64]*float64{10: ptr(900.0), 20: nil},
		})
		req.NoError(err)
		req.Len(row.Columns["history"]["salary"], 1)
		req.Contains(row.Columns["history"]["salary"], int64(10))
	})
}

func TestWriteRows_BatchIndependence(t *testing.T) {
	t.Parallel()
	req := require.New(t)
	m := newTestMapper(t)

	records := []Record{
		&citizen{ID: "c1", Name: "first"},
		&citizen{Name: "second"}, // no row key backing value
		&citizen{ID: "c3", Name: "third"},
	}
	rows, errs := m.WriteRows(records)
	req.Len(rows, 3)
	req.Len(errs, 3)

	req.NoError(errs[0])
	req.Equal([]byte("c1"), rows[0].Key)

	req.ErrorIs(errs[1], ErrRowKeyEmpty)
	req.Nil(rows[1])

	req.NoError(errs[2])
	req.Equal([]byte("c3"), rows[2].Key)
}

func TestWriteRow_CodecFailure(t *testing.T) {
	t.Parallel()
	req := require.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCodec := codec.NewMockCodec(ctrl)
	mockCodec.EXPECT().CanDeserialize(gomock.Any()).Return(true).AnyTimes()
	mockCodec.EXPECT().Serialize(gomock.Any(), gomock.Any()).Return(nil, assert.AnError).AnyTimes()

	m, err := New(&Config{Codec: mockCodec})
	req.NoError(err)

	_, err = m.WriteRow(sampleCitizen())
	req.ErrorIs(err, ErrCodec)
}
