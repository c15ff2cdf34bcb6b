package tile

import "sort"

// Source produces uniformly distributed numbers in [0.0,1.0).
// *math/rand.Rand is a Source.
type Source interface {
	Float64() float64
}

// frequency is the upper bound of the cumulative probability of drawing a letter.
type frequency struct {
	ch Letter
	hi float64
}

// frequencies approximate English letter usage, ordered by increasing cumulative probability.
var frequencies = []frequency{
	{'Z', 0.00074},
	{'Q', 0.00169},
	{'J', 0.00319},
	{'X', 0.00469},
	{'K', 0.01239},
	{'V', 0.02219},
	{'B', 0.03719},
	{'P', 0.05619},
	{'G', 0.07619},
	{'Y', 0.09619},
	{'F', 0.11819},
	{'M', 0.14219},
	{'W', 0.16619},
	{'C', 0.19419},
	{'U', 0.22219},
	{'L', 0.26219},
	{'D', 0.30519},
	{'R', 0.36519},
	{'H', 0.42619},
	{'S', 0.48919},
	{'N', 0.55619},
	{'I', 0.62619},
	{'O', 0.70119},
	{'A', 0.78319},
	{'T', 0.87419},
	{'E', 1},
}

// DrawLetter picks a random letter weighted by how often it is used in English words.
// A draw that lands exactly on the boundary between two letters picks the earlier letter.
func DrawLetter(src Source) Letter {
	x := src.Float64()
	i := sort.Search(len(frequencies), func(i int) bool {
		return x <= frequencies[i].hi
	})
	if i == len(frequencies) {
		i--
	}
	return frequencies[i].ch
}

// Draw creates an unmodified tile with a random letter.
func Draw(src Source) Tile {
	ch := DrawLetter(src)
	t := Tile{
		Ch:    ch,
		Score: ch.Score(),
	}
	return t
}
