// Package sh provides an interactive shell to exercise a ring buffer by hand.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/uartpump/pkg/l0/uart"
	"github.com/robotalks/uartpump/pkg/ring"
)

// Shell provides ishell backed interactive shell over a byte ring buffer.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Buffer *ring.Buffer[byte]
}

// Status is the observable state of the buffer.
type Status struct {
	Len   int  `json:"len"`
	Cap   int  `json:"cap"`
	Empty bool `json:"empty"`
	Full  bool `json:"full"`
}

const shellKey = "$shell"

var (
	// flags

	evalOnly   bool
	outputJSON bool
	capacity   = uart.DefaultCapacity

	// commands
	commands = []*ishell.Cmd{
		&PushCmd,
		&PopCmd,
		&DrainCmd,
		&FillCmd,
		&StatusCmd,
		&ResetCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print status in JSON.")
	flag.IntVar(&capacity, "capacity", capacity, "Ring buffer capacity.")
}

// New creates a new shell.
func New(capacity int) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Buffer: ring.New[byte](capacity),
	}
	s.Shell.Set(shellKey, s)
	s.updatePrompt()
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// ParseBytes parses arguments into bytes. An argument starting with a
// digit is a number (decimal, 0x hex, 0 octal, 0b binary), anything else
// is taken as literal bytes, e.g. 0x01 abc 2. The shell strips quotes,
// so 'a b' arrives as one literal argument. Arguments still wrapped in
// quotes have them removed, which allows literal digits with "'12'".
func ParseBytes(args []string) ([]byte, error) {
	var out []byte
	for _, arg := range args {
		if n := len(arg); n >= 2 && (arg[0] == '\'' || arg[0] == '"') && arg[n-1] == arg[0] {
			out = append(out, arg[1:n-1]...)
			continue
		}
		if arg == "" || arg[0] < '0' || arg[0] > '9' {
			out = append(out, arg...)
			continue
		}
		val, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return out, fmt.Errorf("invalid byte %q", arg)
		}
		out = append(out, byte(val))
	}
	return out, nil
}

// Status returns the current buffer status.
func (s *Shell) Status() Status {
	return Status{
		Len:   s.Buffer.Len(),
		Cap:   s.Buffer.Cap(),
		Empty: s.Buffer.IsEmpty(),
		Full:  s.Buffer.IsFull(),
	}
}

// Push pushes bytes until one is rejected. It returns the number pushed.
func (s *Shell) Push(data []byte) (int, error) {
	defer s.updatePrompt()
	for n, b := range data {
		if err := s.Buffer.Push(b); err != nil {
			return n, err
		}
	}
	return len(data), nil
}

// Pop pops at most count bytes.
func (s *Shell) Pop(count int) []byte {
	defer s.updatePrompt()
	var out []byte
	for ; count > 0; count-- {
		b, ok := s.Buffer.Pop()
		if !ok {
			break
		}
		out = append(out, b)
	}
	return out
}

// Fill pushes increasing values starting from start until the buffer is full.
func (s *Shell) Fill(start byte) int {
	defer s.updatePrompt()
	var n int
	for b := start; s.Buffer.Push(b) == nil; b++ {
		n++
	}
	return n
}

// Reset empties the buffer.
func (s *Shell) Reset() {
	s.Buffer.Reset()
	s.updatePrompt()
}

// FormatByte prints a byte with its class.
func FormatByte(b byte) string {
	return fmt.Sprintf("0x%02x %-5s %q", b, uart.Classify(b), string(rune(b)))
}

func (s *Shell) updatePrompt() {
	if s.Shell == nil {
		return
	}
	s.Shell.SetPrompt(fmt.Sprintf("[%d/%d] > ", s.Buffer.Len(), s.Buffer.Cap()))
}

func (s *Shell) printStatus(c *ishell.Context) {
	st := s.Status()
	if s.OutputJSON {
		out, err := json.Marshal(&st)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	var flags []string
	if st.Empty {
		flags = append(flags, "empty")
	}
	if st.Full {
		flags = append(flags, "full")
	}
	c.Printf("%d/%d %s\n", st.Len, st.Cap, strings.Join(flags, ","))
}

func popCount(c *ishell.Context) (int, bool) {
	if len(c.Args) == 0 {
		return 1, true
	}
	n, err := strconv.Atoi(c.Args[0])
	if err != nil || n <= 0 {
		c.Err(fmt.Errorf("invalid COUNT %q", c.Args[0]))
		return 0, false
	}
	return n, true
}

var (
	// PushCmd pushes bytes.
	PushCmd = ishell.Cmd{
		Name:    "push",
		Aliases: []string{"p"},
		Help:    "BYTE... (number or text)",
		Func: func(c *ishell.Context) {
			data, err := ParseBytes(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			if n, err := s.Push(data); err != nil {
				c.Printf("Buffer full! %d of %d pushed\n", n, len(data))
				return
			}
			s.printStatus(c)
		},
	}

	// PopCmd pops bytes.
	PopCmd = ishell.Cmd{
		Name:    "pop",
		Aliases: []string{"o"},
		Help:    "[COUNT]",
		Func: func(c *ishell.Context) {
			n, ok := popCount(c)
			if !ok {
				return
			}
			data := ShellFrom(c).Pop(n)
			if len(data) == 0 {
				c.Println("empty")
				return
			}
			for _, b := range data {
				c.Println(FormatByte(b))
			}
		},
	}

	// DrainCmd pops all bytes.
	DrainCmd = ishell.Cmd{
		Name:    "drain",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			for _, b := range s.Pop(s.Buffer.Len()) {
				c.Println(FormatByte(b))
			}
			s.printStatus(c)
		},
	}

	// FillCmd fills the buffer.
	FillCmd = ishell.Cmd{
		Name:    "fill",
		Aliases: []string{"f"},
		Help:    "[START]",
		Func: func(c *ishell.Context) {
			var start byte
			if len(c.Args) > 0 {
				data, err := ParseBytes(c.Args[:1])
				if err != nil || len(data) != 1 {
					c.Err(fmt.Errorf("invalid START %q", c.Args[0]))
					return
				}
				start = data[0]
			}
			s := ShellFrom(c)
			c.Printf("%d pushed\n", s.Fill(start))
			s.printStatus(c)
		},
	}

	// StatusCmd prints buffer status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).printStatus(c)
		},
	}

	// ResetCmd empties the buffer.
	ResetCmd = ishell.Cmd{
		Name:    "reset",
		Aliases: []string{"r"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			s.Reset()
			s.printStatus(c)
		},
	}
)

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	if capacity <= 0 {
		log.Fatalf("invalid capacity %d", capacity)
	}
	New(capacity).Run(flag.Args()...)
}
