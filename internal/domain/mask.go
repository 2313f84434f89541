package domain

// Mask - булева маска над тайлами карты (поле зрения, свет, прозрачность).
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, bits: make([]bool, width*height)}
}

// InBounds проверяет координаты.
func (m *Mask) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Get возвращает false за пределами маски.
func (m *Mask) Get(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.bits[y*m.Width+x]
}

func (m *Mask) Set(x, y int, v bool) {
	if m.InBounds(x, y) {
		m.bits[y*m.Width+x] = v
	}
}

// Fill выставляет все клетки в v.
func (m *Mask) Fill(v bool) {
	for i := range m.bits {
		m.bits[i] = v
	}
}

// Clone возвращает независимую копию.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.Width, m.Height)
	copy(c.bits, m.bits)
	return c
}

// Or объединяет маску с other (по месту).
func (m *Mask) Or(other *Mask) {
	for i := range m.bits {
		if i < len(other.bits) && other.bits[i] {
			m.bits[i] = true
		}
	}
}

// And пересекает маску с other (по месту).
func (m *Mask) And(other *Mask) {
	for i := range m.bits {
		m.bits[i] = m.bits[i] && i < len(other.bits) && other.bits[i]
	}
}

// Count - число выставленных клеток.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}
