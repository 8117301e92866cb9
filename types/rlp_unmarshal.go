package types

import (
	"fmt"

	"github.com/dogechain-lab/fastrlp"
)

type RLPUnmarshaler interface {
	UnmarshalRLP(input []byte) error
}

type unmarshalRLPFunc func(p *fastrlp.Parser, v *fastrlp.Value) error

func UnmarshalRlp(obj unmarshalRLPFunc, input []byte) error {
	pr := fastrlp.DefaultParserPool.Get()

	v, err := pr.Parse(input)
	if err != nil {
		fastrlp.DefaultParserPool.Put(pr)

		return err
	}

	if err := obj(pr, v); err != nil {
		fastrlp.DefaultParserPool.Put(pr)

		return err
	}

	fastrlp.DefaultParserPool.Put(pr)

	return nil
}

// expectElems returns the list elements of v, failing unless there are exactly n
func expectElems(v *fastrlp.Value, n int, what string) ([]*fastrlp.Value, error) {
	elems, err := v.GetElems()
	if err != nil {
		return nil, err
	}

	if len(elems) != n {
		return nil, fmt.Errorf("incorrect number of elements to decode %s, expected %d but found %d",
			what, n, len(elems))
	}

	return elems, nil
}
