package qevent

import (
	"fmt"
	"math/big"
)

// Proxy is a beat-relative view of an Event. The event is shared, never
// mutated; many proxies may point at the same event.
type Proxy struct {
	event  *Event
	offset *big.Rat
}

var (
	ratZero = new(big.Rat)
	ratOne  = big.NewRat(1, 1)
)

// NewProxy wraps event with an already-normalized offset in [0, 1].
//
// Errors: ErrNilEvent, ErrProxyOutOfRange.
func NewProxy(event *Event, offset *big.Rat) (*Proxy, error) {
	if event == nil {
		return nil, ErrNilEvent
	}
	if offset == nil || offset.Cmp(ratZero) < 0 || offset.Cmp(ratOne) > 0 {
		return nil, fmt.Errorf("%w: %v not in [0, 1]", ErrProxyOutOfRange, offset)
	}

	return &Proxy{event: event, offset: new(big.Rat).Set(offset)}, nil
}

// NewProxyInSpan normalizes event's offset against the span [lo, hi]:
//
//	offset = (event.offset − lo) / (hi − lo)
//
// Errors: ErrNilEvent, ErrInvalidSpan (lo ≥ hi), ErrProxyOutOfRange
// (event offset outside [lo, hi]).
func NewProxyInSpan(event *Event, lo, hi *big.Rat) (*Proxy, error) {
	if event == nil {
		return nil, ErrNilEvent
	}
	if lo == nil || hi == nil || lo.Cmp(hi) >= 0 {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidSpan, lo, hi)
	}
	if event.cmpOffset(lo) < 0 || event.cmpOffset(hi) > 0 {
		return nil, fmt.Errorf("%w: %s not in [%s, %s]",
			ErrProxyOutOfRange, event.offset.RatString(), lo.RatString(), hi.RatString())
	}
	num := new(big.Rat).Sub(event.offset, lo)
	span := new(big.Rat).Sub(hi, lo)

	return &Proxy{event: event, offset: num.Quo(num, span)}, nil
}

// Event returns the wrapped event.
func (p *Proxy) Event() *Event { return p.event }

// Offset returns a copy of the normalized offset.
func (p *Proxy) Offset() *big.Rat { return new(big.Rat).Set(p.offset) }

// Index returns the wrapped event's disambiguating index.
func (p *Proxy) Index() int { return p.event.index }

// CmpOffset compares the normalized offset against x without allocating.
func (p *Proxy) CmpOffset(x *big.Rat) int { return p.offset.Cmp(x) }

// AbsDistance returns |offset − x| as a fresh value.
func (p *Proxy) AbsDistance(x *big.Rat) *big.Rat {
	d := new(big.Rat).Sub(p.offset, x)

	return d.Abs(d)
}

// String renders the proxy as event~offset for diagnostics.
func (p *Proxy) String() string {
	return fmt.Sprintf("%s~%s", p.event, p.offset.RatString())
}
