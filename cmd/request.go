package cmd

import (
	"context"
	"encoding/json"
	"io"
	"math/big"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/nauert/qevent"
	"github.com/katalvlaran/nauert/quantize"
	"github.com/katalvlaran/nauert/searchtree"
)

// QuantizeRequest is the JSON input of both the quantize command and the
// HTTP endpoint. Exactly one of Offsets or Durations must be set; numbers
// are read exactly (no float rounding).
type QuantizeRequest struct {
	Offsets    []json.Number `json:"offsets,omitempty"`
	Durations  []json.Number `json:"durations,omitempty"`
	Beatspan   string        `json:"beatspan,omitempty"`
	Tempo      json.Number   `json:"tempo,omitempty"`
	SearchTree string        `json:"search_tree,omitempty"`
	Workers    int           `json:"workers,omitempty"`
}

// BeatResponse describes one quantized beat.
type BeatResponse struct {
	OffsetMS string `json:"offset_ms"`
	RTM      string `json:"rtm"`
	Distance string `json:"distance,omitempty"`
	Events   int    `json:"events"`
}

// QuantizeResponse is the JSON output of a quantization.
type QuantizeResponse struct {
	RunID string         `json:"run_id"`
	Beats []BeatResponse `json:"beats"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Error string `json:"detail"`
}

// settings are the defaults a request may override.
type settings struct {
	beatspan   string
	tempo      string
	searchTree string
	workers    int
	maxBeats   int
}

func decodeRequest(r io.Reader) (QuantizeRequest, error) {
	var req QuantizeRequest
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return req, errors.Wrap(err, "decode request")
	}

	return req, nil
}

// run quantizes req, letting its fields override s.
func run(ctx context.Context, req QuantizeRequest, s settings, log logrus.FieldLogger) (QuantizeResponse, error) {
	if req.Beatspan != "" {
		s.beatspan = req.Beatspan
	}
	if req.Tempo != "" {
		s.tempo = req.Tempo.String()
	}
	if req.SearchTree != "" {
		s.searchTree = req.SearchTree
	}
	if req.Workers != 0 {
		s.workers = req.Workers
	}

	seq, err := buildSequence(req)
	if err != nil {
		return QuantizeResponse{}, err
	}
	schema, err := buildSchema(s)
	if err != nil {
		return QuantizeResponse{}, err
	}
	res, err := quantize.Quantize(ctx, seq,
		quantize.WithSchema(schema),
		quantize.WithWorkers(s.workers),
		quantize.WithLogger(log),
	)
	if err != nil {
		return QuantizeResponse{}, errors.Wrap(err, "quantize")
	}

	return toResponse(res), nil
}

func buildSequence(req QuantizeRequest) (*qevent.Sequence, error) {
	switch {
	case len(req.Offsets) > 0 && len(req.Durations) > 0:
		return nil, errors.New("set either offsets or durations, not both")
	case len(req.Offsets) > 0:
		offsets, err := parseRats(req.Offsets)
		if err != nil {
			return nil, err
		}
		seq, err := qevent.FromMillisecondOffsets(offsets)

		return seq, errors.Wrap(err, "offsets")
	case len(req.Durations) > 0:
		durations, err := parseRats(req.Durations)
		if err != nil {
			return nil, err
		}
		seq, err := qevent.FromMillisecondDurations(durations, true)

		return seq, errors.Wrap(err, "durations")
	default:
		return nil, errors.New("no offsets or durations given")
	}
}

func buildSchema(s settings) (quantize.BeatSchema, error) {
	schema := quantize.DefaultBeatSchema()
	beatspan, ok := new(big.Rat).SetString(s.beatspan)
	if !ok {
		return schema, errors.Errorf("invalid beatspan %q", s.beatspan)
	}
	tempo, ok := new(big.Rat).SetString(s.tempo)
	if !ok {
		return schema, errors.Errorf("invalid tempo %q", s.tempo)
	}
	schema.Beatspan = beatspan
	schema.MaxBeats = s.maxBeats
	// The tempo counts beats per minute.
	schema.Tempo = qevent.Tempo{ReferenceDuration: new(big.Rat).Set(beatspan), UnitsPerMinute: tempo}

	switch s.searchTree {
	case "", "unweighted":
		schema.SearchTree = searchtree.DefaultUnweighted()
	case "weighted":
		schema.SearchTree = searchtree.DefaultWeighted()
	default:
		return schema, errors.Errorf("unknown search tree %q", s.searchTree)
	}

	return schema, errors.Wrap(schema.Validate(), "schema")
}

func parseRats(nums []json.Number) ([]*big.Rat, error) {
	out := make([]*big.Rat, len(nums))
	var (
		i  int
		ok bool
	)
	for i = range nums {
		if out[i], ok = new(big.Rat).SetString(nums[i].String()); !ok {
			return nil, errors.Errorf("invalid number %q at %d", nums[i], i)
		}
	}

	return out, nil
}

func toResponse(res *quantize.Result) QuantizeResponse {
	out := QuantizeResponse{RunID: res.RunID, Beats: make([]BeatResponse, len(res.Beats))}
	var i int
	for i = range res.Beats {
		b := res.Beats[i]
		br := BeatResponse{
			OffsetMS: b.OffsetMS().RatString(),
			RTM:      b.Grid().RTMFormat(),
			Events:   len(b.Events()),
		}
		if d, ok := b.Grid().Distance(); ok {
			br.Distance = d.RatString()
		}
		out.Beats[i] = br
	}

	return out
}
