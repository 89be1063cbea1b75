// Package cp — минимальный движок конечных доменов: переменные с битовыми доменами,
// откат по trail, очередь распространения до неподвижной точки и поиск
// в глубину с ветвями и границами.
package cp

import (
	"math/bits"
	"strconv"
	"strings"
)

// Domain — множество неотрицательных целых значений на битовой маске.
// Бит i слова w соответствует значению w*64+i.
type Domain struct {
	words []uint64
	size  int
}

func newDomain(values []int) Domain {
	maxV := -1
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	d := Domain{words: make([]uint64, maxV/64+1)}
	for _, v := range values {
		if d.words[v/64]&(1<<(uint(v)%64)) == 0 {
			d.words[v/64] |= 1 << (uint(v) % 64)
			d.size++
		}
	}
	return d
}

func newRangeDomain(lo, hi int) Domain {
	d := Domain{words: make([]uint64, hi/64+1)}
	for v := lo; v <= hi; v++ {
		d.words[v/64] |= 1 << (uint(v) % 64)
	}
	d.size = hi - lo + 1
	return d
}

func (d Domain) Size() int { return d.size }

func (d Domain) IsEmpty() bool { return d.size == 0 }

func (d Domain) IsFixed() bool { return d.size == 1 }

func (d Domain) Has(v int) bool {
	if v < 0 || v/64 >= len(d.words) {
		return false
	}
	return d.words[v/64]&(1<<(uint(v)%64)) != 0
}

// Min возвращает наименьшее значение; -1 для пустого домена.
func (d Domain) Min() int {
	for w, word := range d.words {
		if word != 0 {
			return w*64 + bits.TrailingZeros64(word)
		}
	}
	return -1
}

// Max возвращает наибольшее значение; -1 для пустого домена.
func (d Domain) Max() int {
	for w := len(d.words) - 1; w >= 0; w-- {
		if word := d.words[w]; word != 0 {
			return w*64 + 63 - bits.LeadingZeros64(word)
		}
	}
	return -1
}

// Values возвращает значения по возрастанию.
func (d Domain) Values() []int {
	out := make([]int, 0, d.size)
	d.each(func(v int) bool {
		out = append(out, v)
		return true
	})
	return out
}

// each обходит значения по возрастанию, пока f возвращает true.
func (d Domain) each(f func(v int) bool) {
	for w, word := range d.words {
		for word != 0 {
			t := bits.TrailingZeros64(word)
			if !f(w*64 + t) {
				return
			}
			word &= word - 1
		}
	}
}

func (d Domain) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	d.each(func(v int) bool {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(strconv.Itoa(v))
		return true
	})
	b.WriteByte('}')
	return b.String()
}

func (d Domain) clone() Domain {
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	return Domain{words: words, size: d.size}
}

// Операции ниже изменяют домен на месте и сообщают, было ли изменение.

func (d *Domain) remove(v int) bool {
	if !d.Has(v) {
		return false
	}
	d.words[v/64] &^= 1 << (uint(v) % 64)
	d.size--
	return true
}

func (d *Domain) keepOnly(v int) bool {
	if !d.Has(v) {
		changed := d.size > 0
		d.clear()
		return changed
	}
	if d.size == 1 {
		return false
	}
	for w := range d.words {
		d.words[w] = 0
	}
	d.words[v/64] = 1 << (uint(v) % 64)
	d.size = 1
	return true
}

func (d *Domain) removeBelow(lo int) bool {
	if d.size == 0 || lo <= d.Min() {
		return false
	}
	if lo > d.Max() {
		d.clear()
		return true
	}
	for w := 0; w < lo/64; w++ {
		d.words[w] = 0
	}
	d.words[lo/64] &^= (1 << (uint(lo) % 64)) - 1
	d.recount()
	return true
}

func (d *Domain) removeAbove(hi int) bool {
	if d.size == 0 || hi >= d.Max() {
		return false
	}
	if hi < d.Min() {
		d.clear()
		return true
	}
	for w := hi/64 + 1; w < len(d.words); w++ {
		d.words[w] = 0
	}
	if r := uint(hi)%64 + 1; r < 64 {
		d.words[hi/64] &= (1 << r) - 1
	}
	d.recount()
	return true
}

func (d *Domain) clear() {
	for w := range d.words {
		d.words[w] = 0
	}
	d.size = 0
}

func (d *Domain) recount() {
	n := 0
	for _, word := range d.words {
		n += bits.OnesCount64(word)
	}
	d.size = n
}
