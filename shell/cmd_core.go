package shell

import (
	"fmt"
	"strings"

	"hls/vga"
)

const copyrightNotice = `Copyright (C) 2025 Adam Perkowski

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation,version 3 of the License.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see https://www.gnu.org/licenses .`

func registerCoreCommands(r *registry) error {
	for _, cmd := range []command{
		{Name: "clrs", Doc: "clear the output", Run: cmdClrs},
		{Name: "help", Doc: "show a list of available commands", Run: cmdHelp},
		{Name: "test", Doc: "test :)", Run: cmdTest},
		{Name: "cc", Doc: "display copyright info", Run: cmdCopyright},
		{Name: "getdoc", Args: "[cmd]", Doc: "display the documentation of selected command", Run: cmdGetDoc},
		{Name: "chcolor", Args: "[fg] [bg]", Doc: "change text color", Run: cmdChColor},
		{Name: "history", Doc: "display command history", Run: cmdHistory},
	} {
		if err := r.register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func cmdClrs(s *Shell, _ []string) (int, error) {
	s.display.Clear()
	return CodeSelfRendered, nil
}

func cmdHelp(s *Shell, _ []string) (int, error) {
	s.println("HighlightOS Shell\n\n  List of available commands:")
	for _, cmd := range s.reg.list() {
		s.println(fmt.Sprintf(". %s %s  >>  %s", cmd.Name, cmd.Args, cmd.Doc))
	}
	return CodeSuccess, nil
}

func cmdTest(s *Shell, _ []string) (int, error) {
	s.println("hello. this is a test command. it's life goal is to always return 2.")
	return CodeGeneralError, nil
}

func cmdCopyright(s *Shell, _ []string) (int, error) {
	s.println(copyrightNotice)
	return CodeSuccess, nil
}

func cmdGetDoc(s *Shell, args []string) (int, error) {
	if len(args) == 0 {
		s.printError("No command specified.\n")
		return CodeUserError, nil
	}

	cmd, ok := s.reg.resolve(strings.ReplaceAll(args[0], "\n", ""))
	if !ok {
		s.printError("Command not found.\n")
		return CodeCriticalError, nil
	}
	s.println(cmd.Name + "  >>  " + cmd.Doc)
	return CodeSuccess, nil
}

func cmdChColor(s *Shell, args []string) (int, error) {
	if len(args) != 2 {
		s.printError("Specify both foreground and background color.\nExample usage: chcolor red white\n")
		return CodeUserError, nil
	}

	var colors [2]vga.Color
	for i, arg := range args {
		c, ok := vga.ColorByName(strings.ReplaceAll(arg, "\n", ""))
		if !ok {
			s.printError("Color not found: " + arg + "\n")
			return CodeUserError, nil
		}
		colors[i] = c
	}

	s.display.ChangeColor(colors[0], colors[1])
	s.display.Clear()
	return CodeSuccess, nil
}

func cmdHistory(s *Shell, _ []string) (int, error) {
	for _, line := range s.history.All() {
		s.println(line)
	}
	return CodeSuccess, nil
}
