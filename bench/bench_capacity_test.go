package bench

import (
	"testing"

	"isd-hardness/space"
)

func BenchmarkEntropyOracleLee(b *testing.B) {
	s, err := space.New(space.Lee, 643)
	if err != nil {
		b.Fatal(err)
	}
	o := space.EntropyOracle{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := o.Capacity(s, 0.37); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEntropyOracleHamming(b *testing.B) {
	s, err := space.New(space.Hamming, 31)
	if err != nil {
		b.Fatal(err)
	}
	o := space.EntropyOracle{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := o.Capacity(s, 0.5); err != nil {
			b.Fatal(err)
		}
	}
}
