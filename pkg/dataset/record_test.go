package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordHas(t *testing.T) {
	r := Record{Names: []string{"PopA", "CondX", "Batch1"}, Count: 3}

	assert.True(t, r.Has("PopA"))
	assert.True(t, r.Has("CondX", "Batch1"))
	assert.True(t, r.Has(), "empty tag set matches every record")
	assert.False(t, r.Has("PopA", "CondY"))
}

func TestRecordsSum(t *testing.T) {
	records := Records{
		{Names: []string{"PopA", "CondX"}, Count: 10},
		{Names: []string{"PopA", "CondY"}, Count: 5},
		{Names: []string{"CondX"}, Count: 20},
		{Names: []string{"CondY"}, Count: 5},
	}

	assert.Equal(t, 10.0, records.Sum("PopA", "CondX"))
	assert.Equal(t, 30.0, records.Sum("CondX"))
	assert.Equal(t, 0.0, records.Sum("PopB"))
	assert.Equal(t, 40.0, records.Sum())
}

func TestRecordsTags(t *testing.T) {
	records := Records{
		{Names: []string{"PopA", "CondX"}},
		{Names: []string{"CondX", "PopB"}},
	}
	assert.Equal(t, []string{"PopA", "CondX", "PopB"}, records.Tags())
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Unique([]string{"a", "b", "", "a", "c", "b"}))
	assert.Empty(t, Unique(nil))
}
