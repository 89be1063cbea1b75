package roster

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// commentMarker отделяет комментарий до конца строки.
const commentMarker = "#"

// Parse читает экземпляр в текстовом формате:
//
//	slots employees skills
//	employees строк по skills значений 0/1
//	slots строк по skills значений спроса
//
// Пустые строки и комментарии пропускаются.
func Parse(r io.Reader) (*Instance, error) {
	lr := &lineReader{sc: bufio.NewScanner(r)}

	header, err := lr.ints("header", 3)
	if err != nil {
		return nil, err
	}
	slots, employees, skills := header[0], header[1], header[2]
	if slots <= 0 || employees <= 0 || skills <= 0 {
		return nil, fmt.Errorf("%w: line %d: header values must be > 0 (got %d %d %d)",
			ErrMalformedInstance, lr.line, slots, employees, skills)
	}

	// матрицы растут по мере чтения строк: заголовок не задаёт размер памяти
	var employeeSkills, slotDemands [][]int
	for e := 0; e < employees; e++ {
		row, err := lr.ints(fmt.Sprintf("employee %d skills", e), skills)
		if err != nil {
			return nil, err
		}
		employeeSkills = append(employeeSkills, row)
	}
	for s := 0; s < slots; s++ {
		row, err := lr.ints(fmt.Sprintf("slot %d demands", s), skills)
		if err != nil {
			return nil, err
		}
		slotDemands = append(slotDemands, row)
	}
	return NewInstance(slots, employees, skills, employeeSkills, slotDemands)
}

func ParseFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inst, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// Write сохраняет экземпляр в том же формате, что читает Parse, с комментариями.
func Write(w io.Writer, inst *Instance) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d # slots employees skills\n", inst.Slots, inst.Employees, inst.Skills)
	for e, row := range inst.EmployeeSkills {
		writeRow(bw, row)
		if e == 0 {
			bw.WriteString(" # employees x skills matrix")
		}
		bw.WriteByte('\n')
	}
	for s, row := range inst.SlotDemands {
		writeRow(bw, row)
		if s == 0 {
			bw.WriteString(" # skill demand for each slot")
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func WriteFile(path string, inst *Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, inst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeRow(w *bufio.Writer, row []int) {
	for i, v := range row {
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(strconv.Itoa(v))
	}
}

// lineReader выдаёт значимые строки (без комментариев и пустых строк).
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (lr *lineReader) next() ([]string, bool) {
	for lr.sc.Scan() {
		lr.line++
		text := lr.sc.Text()
		if i := strings.Index(text, commentMarker); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		return fields, true
	}
	return nil, false
}

func (lr *lineReader) ints(what string, n int) ([]int, error) {
	fields, ok := lr.next()
	if !ok {
		if err := lr.sc.Err(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrMalformedInstance, what, err)
		}
		return nil, fmt.Errorf("%w: unexpected end of input, expected %s", ErrMalformedInstance, what)
	}
	if len(fields) != n {
		return nil, fmt.Errorf("%w: line %d: %s must have %d values (got %d)",
			ErrMalformedInstance, lr.line, what, n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: field %d %q is not an integer",
				ErrMalformedInstance, lr.line, what, i, f)
		}
		out[i] = v
	}
	return out, nil
}
