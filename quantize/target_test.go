package quantize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nauert/qevent"
	"github.com/katalvlaran/nauert/quantize"
	"github.com/katalvlaran/nauert/searchtree"
)

func TestBeatSchema_Beats(t *testing.T) {
	schema := quantize.DefaultBeatSchema()

	cases := []struct {
		total int64
		want  []string
	}{
		{0, []string{"0"}},
		{999, []string{"0"}},
		{2000, []string{"0", "1000", "2000"}},
		{2500, []string{"0", "1000", "2000"}},
	}
	for _, tc := range cases {
		beats, err := schema.Beats(r(tc.total, 1))
		require.NoError(t, err)
		got := make([]string, len(beats))
		for i, b := range beats {
			got[i] = b.OffsetMS().RatString()
			assert.Equal(t, "1000", b.DurationMS().RatString())
		}
		assert.Equal(t, tc.want, got, "total=%d", tc.total)
	}
}

func TestBeatSchema_MaxBeats(t *testing.T) {
	schema := quantize.DefaultBeatSchema()
	schema.MaxBeats = 3

	beats, err := schema.Beats(r(2999, 1))
	require.NoError(t, err)
	assert.Len(t, beats, 3)

	_, err = schema.Beats(r(3000, 1))
	assert.ErrorIs(t, err, quantize.ErrInvalidSchema)

	// a very fast tempo over a short span must fail before laying anything out.
	schema.Tempo = qevent.Tempo{ReferenceDuration: r(1, 4), UnitsPerMinute: r(60000000, 1)}
	_, err = schema.Partition(sequenceAt(t, 0, 1000))
	assert.ErrorIs(t, err, quantize.ErrInvalidSchema)

	schema = quantize.DefaultBeatSchema()
	schema.MaxBeats = -1
	assert.ErrorIs(t, schema.Validate(), quantize.ErrInvalidSchema)
}

func TestBeatSchema_Partition(t *testing.T) {
	beats, err := quantize.DefaultBeatSchema().Partition(sequenceAt(t, 0, 500, 1000, 1750, 2000))
	require.NoError(t, err)
	require.Len(t, beats, 3)

	counts := make([]int, len(beats))
	for i, b := range beats {
		counts[i] = len(b.Events())
	}
	assert.Equal(t, []int{2, 2, 1}, counts, "events on a beat boundary go to the later beat")
	assert.Equal(t, qevent.Terminal, beats[2].Events()[0].Kind())
}

func TestBeatSchema_Validate(t *testing.T) {
	schema := quantize.DefaultBeatSchema()
	schema.Beatspan = r(0, 1)
	_, err := schema.Beats(r(1000, 1))
	assert.ErrorIs(t, err, quantize.ErrInvalidSchema)

	schema = quantize.DefaultBeatSchema()
	schema.Tempo = qevent.Tempo{ReferenceDuration: r(1, 4)}
	assert.ErrorIs(t, schema.Validate(), quantize.ErrInvalidSchema)
	assert.ErrorIs(t, schema.Validate(), qevent.ErrInvalidTempo)

	schema = quantize.DefaultBeatSchema()
	schema.SearchTree = nil
	assert.ErrorIs(t, schema.Validate(), quantize.ErrNilSearchTree)

	_, err = quantize.DefaultBeatSchema().Partition(nil)
	assert.ErrorIs(t, err, quantize.ErrNilSequence)
}

func TestTargetBeat_Job(t *testing.T) {
	b := newBeat(t)
	job, err := b.Job(0)
	require.NoError(t, err)
	assert.Nil(t, job, "a beat without events has no job")

	e, err := qevent.NewPitched(r(250, 1), []float64{60})
	require.NoError(t, err)
	b.AddEvents(e)
	job, err = b.Job(3)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, 3, job.ID())
	require.Len(t, job.Proxies(), 1)
	assert.Equal(t, "1/4", job.Proxies()[0].Offset().RatString())

	late, err := qevent.NewSilent(r(5000, 1))
	require.NoError(t, err)
	b.AddEvents(late)
	_, err = b.Job(3)
	assert.ErrorIs(t, err, qevent.ErrProxyOutOfRange)
}

func TestNewTargetBeat_Errors(t *testing.T) {
	tree := searchtree.DefaultUnweighted()

	_, err := quantize.NewTargetBeat(r(0, 1), r(0, 1), quarterAt60(), tree)
	assert.ErrorIs(t, err, quantize.ErrInvalidSchema)

	_, err = quantize.NewTargetBeat(r(1, 4), r(-1, 1), quarterAt60(), tree)
	assert.ErrorIs(t, err, quantize.ErrInvalidSchema)

	_, err = quantize.NewTargetBeat(r(1, 4), r(0, 1), quarterAt60(), nil)
	assert.ErrorIs(t, err, quantize.ErrNilSearchTree)

	tempo := qevent.Tempo{ReferenceDuration: r(1, 4), UnitsPerMinute: r(120, 1)}
	b, err := quantize.NewTargetBeat(r(3, 8), r(0, 1), tempo, tree)
	require.NoError(t, err)
	assert.Equal(t, "750", b.DurationMS().RatString())
	assert.Equal(t, "3/8", b.Beatspan().RatString())
	assert.Equal(t, "120", b.Tempo().UnitsPerMinute.RatString())
	assert.Equal(t, "1/4", b.Tempo().ReferenceDuration.RatString())
}
