package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxGuards bounds how many guards one run will prompt for.
const maxGuards = 100

// errInputClosed reports that stdin ended before all answers were given.
var errInputClosed = errors.New("input closed before all guards were named")

// prompter asks the interactive questions of the create command.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next trimmed line. A final line without a newline
// is still returned.
func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errInputClosed
	}
	return strings.TrimSpace(line), nil
}

// askCount asks how many guards to create until it gets a positive number.
func (p *prompter) askCount() (int, error) {
	for {
		fmt.Fprint(p.out, "How many guards? ")
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 {
			fmt.Fprintln(p.out, "  Please enter a whole number greater than zero.")
			continue
		}
		if n > maxGuards {
			fmt.Fprintf(p.out, "  At most %d guards can be created in one run.\n", maxGuards)
			continue
		}
		return n, nil
	}
}

// askNames asks for count names, re-prompting for each one validate rejects.
func (p *prompter) askNames(count int, validate func(name string, entered []string) error) ([]string, error) {
	var names []string
	for i := 1; i <= count; i++ {
		for {
			fmt.Fprintf(p.out, "Enter name for guard #%d: ", i)
			name, err := p.readLine()
			if err != nil {
				return nil, err
			}
			if err := validate(name, names); err != nil {
				fmt.Fprintf(p.out, "  %v\n", err)
				continue
			}
			names = append(names, name)
			break
		}
	}
	return names, nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func (p *prompter) confirm(msg string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", msg)
	response, err := p.readLine()
	if err != nil {
		return false
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes"
}
