package shell

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hls/kernel"
	"hls/rtc"
	"hls/vga"
)

type coloredText struct {
	Text   string
	Fg, Bg vga.Color
}

type fakeDisplay struct {
	out     strings.Builder
	colored []coloredText
	clears  int
	fg, bg  vga.Color
}

func newFakeDisplay() *fakeDisplay { return &fakeDisplay{fg: vga.White, bg: vga.Black} }

func (d *fakeDisplay) Print(s string) { d.out.WriteString(s) }
func (d *fakeDisplay) PrintColored(s string, fg, bg vga.Color) {
	d.out.WriteString(s)
	d.colored = append(d.colored, coloredText{Text: s, Fg: fg, Bg: bg})
}
func (d *fakeDisplay) Clear()                       { d.clears++ }
func (d *fakeDisplay) ChangeColor(fg, bg vga.Color) { d.fg, d.bg = fg, bg }

type fakeLine struct {
	line    string
	cleared int
}

func (l *fakeLine) Read() string { return l.line }
func (l *fakeLine) Clear()       { l.line = ""; l.cleared++ }

type fakeClock struct {
	dt  rtc.DateTime
	err error
}

func (c fakeClock) ReadDateTime() (rtc.DateTime, error) { return c.dt, c.err }

type fakePower struct {
	shutdowns, reboots int
}

func (p *fakePower) Shutdown()    { p.shutdowns++ }
func (p *fakePower) Reboot() bool { p.reboots++; return true }

func newTestShell(t *testing.T) (*Shell, *fakeDisplay) {
	t.Helper()
	d := newFakeDisplay()
	s, err := New(Config{Display: d})
	require.NoError(t, err)
	return s, d
}

// run dispatches line and returns only the output it produced.
func run(t *testing.T, s *Shell, d *fakeDisplay, line string) string {
	t.Helper()
	before := d.out.Len()
	require.NoError(t, s.Dispatch(line+"\n"))
	return d.out.String()[before:]
}

func TestNew_RequiresDisplay(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRegistry_EveryCommandDispatches(t *testing.T) {
	s, _ := newTestShell(t)

	for _, cmd := range s.reg.list() {
		got, ok := s.reg.resolve(cmd.Name)
		require.True(t, ok, cmd.Name)
		assert.Equal(t, cmd.Name, got.Name)
		assert.Equal(t, cmd.Doc, got.Doc)
	}

	called := 0
	require.NoError(t, s.reg.register(command{Name: "probe", Run: func(*Shell, []string) (int, error) {
		called++
		return CodeSuccess, nil
	}}))
	require.NoError(t, s.Dispatch("probe\n"))
	assert.Equal(t, 1, called)
}

func TestRegistry_OrderAndShadowing(t *testing.T) {
	r := newRegistry()
	first := func(*Shell, []string) (int, error) { return 10, nil }
	second := func(*Shell, []string) (int, error) { return 20, nil }
	require.NoError(t, r.register(command{Name: "a", Run: first}))
	require.NoError(t, r.register(command{Name: "b", Run: first}))
	require.NoError(t, r.register(command{Name: "a", Run: second}))

	var names []string
	for _, c := range r.list() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"a", "b", "a"}, names)

	cmd, ok := r.resolve("a")
	require.True(t, ok)
	code, _ := cmd.Run(nil, nil)
	assert.Equal(t, 10, code)

	_, ok = r.resolve("A")
	assert.False(t, ok)
	_, ok = r.resolve("")
	assert.False(t, ok)

	assert.Error(t, r.register(command{Name: " ", Run: first}))
	assert.Error(t, r.register(command{Name: "nil"}))
}

func TestRegistry_DefaultCatalog(t *testing.T) {
	s, _ := newTestShell(t)

	var names []string
	for _, c := range s.reg.list() {
		names = append(names, c.Name)
	}
	want := []string{
		"clrs", "help", "test", "cc", "getdoc", "chcolor", "history",
		"shutdown", "reboot", "poweroff", "time", "date", "datetime",
	}
	if diff := cmp.Diff(want, names[:len(want)]); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify(t *testing.T) {
	for _, code := range []int{0, 2, 3, 4} {
		rc, ok := Classify(code)
		assert.True(t, ok, code)
		assert.Equal(t, code, rc.Code)
	}
	for _, code := range []int{-1, 1, 5, 42, 255} {
		_, ok := Classify(code)
		assert.False(t, ok, code)
	}

	rc, _ := Classify(0)
	assert.Equal(t, vga.Green, rc.Color)
	rc, _ = Classify(4)
	assert.Equal(t, "returned user error", rc.Message)
	assert.Equal(t, vga.Red, rc.Color)
}

func TestDispatch_EmptyLine(t *testing.T) {
	s, d := newTestShell(t)

	out := run(t, s, d, "")
	assert.Equal(t, Prompt, out)
	assert.Equal(t, 0, s.history.Len())
}

func TestDispatch_NotFound(t *testing.T) {
	s, d := newTestShell(t)

	out := run(t, s, d, "nosuch thing")
	assert.Equal(t, "\n > hls: command not found: nosuch thing\n"+Prompt, out)
	require.Len(t, d.colored, 1)
	assert.Equal(t, vga.LightRed, d.colored[0].Fg)
	assert.Equal(t, []string{"nosuch thing"}, s.history.All())
}

func TestDispatch_WhitespaceOnlyIsNotEmpty(t *testing.T) {
	s, d := newTestShell(t)

	out := run(t, s, d, "  ")
	assert.Contains(t, out, "command not found")
	assert.Equal(t, []string{"  "}, s.history.All())
}

func TestDispatch_ClassifiedStatus(t *testing.T) {
	s, d := newTestShell(t)

	out := run(t, s, d, "test")
	assert.Equal(t,
		"\nhello. this is a test command. it's life goal is to always return 2.\n"+
			"\n > test\n2:returned general error\n\n"+Prompt,
		out)
	last := d.colored[len(d.colored)-1]
	assert.Equal(t, coloredText{Text: "2:returned general error\n\n", Fg: vga.Red, Bg: vga.Black}, last)
}

func TestDispatch_SelfRenderedSuppressesStatus(t *testing.T) {
	s, d := newTestShell(t)

	out := run(t, s, d, "clrs")
	assert.Equal(t, "\n"+Prompt, out)
	assert.Equal(t, 1, d.clears)
}

func TestDispatch_UnclassifiedCode(t *testing.T) {
	s, d := newTestShell(t)
	require.NoError(t, s.reg.register(command{Name: "odd", Run: func(*Shell, []string) (int, error) {
		return 42, nil
	}}))

	out := run(t, s, d, "odd")
	assert.Equal(t, "\n\n > odd\nreturned : 42\n\n"+Prompt, out)
	assert.Empty(t, d.colored)
}

func TestDispatch_ArgumentsSplitOnSingleSpaces(t *testing.T) {
	s, d := newTestShell(t)
	var got []string
	require.NoError(t, s.reg.register(command{Name: "args", Run: func(_ *Shell, args []string) (int, error) {
		got = args
		return CodeSuccess, nil
	}}))

	run(t, s, d, "args a  b")
	assert.Equal(t, []string{"a", "", "b"}, got)
}

func TestDispatch_FaultHalts(t *testing.T) {
	s, d := newTestShell(t)
	require.NoError(t, s.reg.register(command{Name: "boom", Run: func(*Shell, []string) (int, error) {
		return 0, kernel.Faultf("boom")
	}}))

	before := d.out.Len()
	err := s.Dispatch("boom\n")
	var fault *kernel.Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, "\n", d.out.String()[before:], "no status line or prompt after a fault")
}

func TestPoll(t *testing.T) {
	d := newFakeDisplay()
	in := &fakeLine{line: "tes"}
	s, err := New(Config{Display: d, Input: in})
	require.NoError(t, err)

	require.NoError(t, s.Poll())
	assert.Equal(t, 0, in.cleared)
	assert.Equal(t, "", d.out.String())

	s.history.Record("old")
	_, _ = s.history.Previous()
	in.line = "test\n"
	require.NoError(t, s.Poll())
	assert.Equal(t, 1, in.cleared)
	assert.Equal(t, 0, s.history.Cursor())
	assert.Equal(t, []string{"old", "test"}, s.history.All())

	require.NoError(t, s.Poll())
	assert.Equal(t, 1, in.cleared, "a line is consumed once")
}

func TestHelp(t *testing.T) {
	s, d := newTestShell(t)

	out := run(t, s, d, "help")
	assert.True(t, strings.HasPrefix(out, "\nHighlightOS Shell\n\n  List of available commands:\n"))
	assert.Contains(t, out, ". clrs   >>  clear the output\n")
	assert.Contains(t, out, ". chcolor [fg] [bg]  >>  change text color\n")
	assert.Contains(t, out, "0:executed successfully")
}

func TestGetDoc(t *testing.T) {
	s, d := newTestShell(t)

	out := run(t, s, d, "getdoc clrs")
	assert.Contains(t, out, "clrs  >>  clear the output\n")
	assert.Contains(t, out, "0:executed successfully")

	out = run(t, s, d, "getdoc nosuchcmd")
	assert.Contains(t, out, "Command not found.\n")
	assert.Contains(t, out, "3:returned critical error")

	out = run(t, s, d, "getdoc")
	assert.Contains(t, out, "No command specified.\n")
	assert.Contains(t, out, "4:returned user error")
}

func TestChColor(t *testing.T) {
	s, d := newTestShell(t)

	code, err := cmdChColor(s, []string{"red"})
	require.NoError(t, err)
	assert.Equal(t, CodeUserError, code)
	assert.Contains(t, d.out.String(), "Example usage: chcolor red white\n")

	code, _ = cmdChColor(s, []string{"red", "bogus"})
	assert.Equal(t, CodeUserError, code)
	assert.Contains(t, d.out.String(), "Color not found: bogus\n")
	assert.Equal(t, vga.White, d.fg)
	assert.Equal(t, vga.Black, d.bg)
	assert.Equal(t, 0, d.clears)

	code, _ = cmdChColor(s, []string{"red", "white"})
	assert.Equal(t, CodeSuccess, code)
	assert.Equal(t, vga.Red, d.fg)
	assert.Equal(t, vga.White, d.bg)
	assert.Equal(t, 1, d.clears)
}

func TestHistoryCommand(t *testing.T) {
	s, d := newTestShell(t)

	for _, line := range []string{"help", "help", "test"} {
		run(t, s, d, line)
	}
	assert.Equal(t, []string{"help", "test"}, s.history.All())

	out := run(t, s, d, "history")
	assert.True(t, strings.HasPrefix(out, "\nhelp\ntest\n"), out)
	assert.Equal(t, []string{"help", "test", "history"}, s.history.All())
}

func TestCopyright(t *testing.T) {
	s, d := newTestShell(t)
	out := run(t, s, d, "cc")
	assert.Contains(t, out, "Copyright (C) 2025 Adam Perkowski")
	assert.Contains(t, out, "0:executed successfully")
}

func TestPowerCommands(t *testing.T) {
	d := newFakeDisplay()
	p := &fakePower{}
	s, err := New(Config{Display: d, Power: p})
	require.NoError(t, err)

	out := run(t, s, d, "shutdown")
	assert.Contains(t, out, "Shutting down system...\nCould not shutdown system via hardware.\n")
	run(t, s, d, "poweroff")
	assert.Equal(t, 2, p.shutdowns)

	out = run(t, s, d, "reboot")
	assert.Contains(t, out, "Rebooting system...\nCould not reboot system via hardware.\n")
	assert.Contains(t, out, "0:executed successfully")
	assert.Equal(t, 1, p.reboots)
}

func TestTimeCommands(t *testing.T) {
	d := newFakeDisplay()
	clock := fakeClock{dt: rtc.DateTime{Second: 5, Minute: 4, Hour: 3, Day: 2, Month: 1, Year: 25}}
	s, err := New(Config{Display: d, RTC: clock})
	require.NoError(t, err)

	assert.Contains(t, run(t, s, d, "time"), "Current time: 03:04:05\n")
	assert.Contains(t, run(t, s, d, "date"), "Current date: 02/01/2025\n")
	assert.Contains(t, run(t, s, d, "datetime"), "Date and time: 02/01/2025 03:04:05\n")
}

func TestTimeCommands_NoRTC(t *testing.T) {
	s, d := newTestShell(t)
	out := run(t, s, d, "time")
	assert.Contains(t, out, "Error: RTC not initialized\n")
	assert.Contains(t, out, "2:returned general error")

	var nilDriver *rtc.Driver
	s.rtc = nilDriver
	out = run(t, s, d, "date")
	assert.Contains(t, out, "Error: RTC not initialized\n")
}

func TestTimeCommands_UpdateTimeout(t *testing.T) {
	d := newFakeDisplay()
	s, err := New(Config{Display: d, RTC: fakeClock{err: rtc.ErrUpdateTimeout}})
	require.NoError(t, err)

	out := run(t, s, d, "datetime")
	assert.Contains(t, out, "Error: "+rtc.ErrUpdateTimeout.Error())
	assert.Contains(t, out, "2:returned general error")
}
