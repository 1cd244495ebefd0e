package shell

import (
	"errors"

	"hls/rtc"
)

func registerSysCommands(r *registry) error {
	for _, cmd := range []command{
		{Name: "shutdown", Doc: "shutdown the system", Run: cmdShutdown},
		{Name: "reboot", Doc: "reboot the system", Run: cmdReboot},
		{Name: "poweroff", Doc: "shutdown the system (alias for shutdown)", Run: cmdShutdown},
		{Name: "time", Doc: "show current time", Run: cmdTime},
		{Name: "date", Doc: "show current date", Run: cmdDate},
		{Name: "datetime", Doc: "show full date and time", Run: cmdDateTime},
	} {
		if err := r.register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func cmdShutdown(s *Shell, _ []string) (int, error) {
	s.println("Shutting down system...")
	if s.power != nil {
		s.power.Shutdown()
	}
	s.println("Could not shutdown system via hardware.")
	s.println("On real systems, this would power off the machine.")
	return CodeSuccess, nil
}

func cmdReboot(s *Shell, _ []string) (int, error) {
	s.println("Rebooting system...")
	if s.power != nil {
		s.power.Reboot()
	}
	s.println("Could not reboot system via hardware.")
	s.println("On real systems, this would restart the machine.")
	return CodeSuccess, nil
}

func cmdTime(s *Shell, _ []string) (int, error) {
	return s.printDateTime("Current time: ", rtc.DateTime.FormatTime)
}

func cmdDate(s *Shell, _ []string) (int, error) {
	return s.printDateTime("Current date: ", rtc.DateTime.FormatDate)
}

func cmdDateTime(s *Shell, _ []string) (int, error) {
	return s.printDateTime("Date and time: ", rtc.DateTime.FormatFull)
}

func (s *Shell) printDateTime(label string, format func(rtc.DateTime) string) (int, error) {
	if s.rtc == nil {
		s.println("Error: " + rtc.ErrNotInitialized.Error())
		return CodeGeneralError, nil
	}

	dt, err := s.rtc.ReadDateTime()
	switch {
	case errors.Is(err, rtc.ErrNotInitialized):
		s.println("Error: " + rtc.ErrNotInitialized.Error())
		return CodeGeneralError, nil
	case err != nil:
		s.log.Warn().Err(err).Msg("rtc read failed")
		s.println("Error: " + err.Error())
		return CodeGeneralError, nil
	}

	s.println(label + format(dt))
	return CodeSuccess, nil
}
