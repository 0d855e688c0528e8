// morse-host keys text on a remote morse beacon over a serial link.
//
// With a message on the command line it keys that message and exits;
// without one it drops into an interactive prompt.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gomorse/host/keyer"
	"gomorse/host/serial"
	"gomorse/morse"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	dot    = flag.Uint("dot", morse.DefaultDotLength, "Dot length in milliseconds")
	invert = flag.Bool("invert", false, "Drive the pin low while transmitting")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	k := keyer.New()
	fmt.Printf("Connecting to beacon on %s...\n", *device)
	if err := k.ConnectWithConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer k.Close()

	if err := k.SetTiming(uint16(*dot)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := k.SetInvert(*invert); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Connected.")

	// One-shot mode: key the message given on the command line
	if flag.NArg() > 0 {
		message := strings.Join(flag.Args(), " ")
		if err := k.KeyText(message); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Enter text to key ('help' for commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return

		case "help", "?":
			printHelp()

		case "dot":
			if len(parts) != 2 {
				fmt.Println("Usage: dot <milliseconds>")
				continue
			}
			ms, err := strconv.ParseUint(parts[1], 10, 16)
			if err != nil {
				fmt.Printf("Invalid dot length: %v\n", err)
				continue
			}
			if err := k.SetTiming(uint16(ms)); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "invert":
			if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
				fmt.Println("Usage: invert on|off")
				continue
			}
			if err := k.SetInvert(parts[1] == "on"); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		default:
			// Anything else is keyed as-is
			if err := k.KeyText(line); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("\nCommands:")
	fmt.Println("  dot <ms>       - Set the dot length in milliseconds")
	fmt.Println("  invert on|off  - Set the drive polarity")
	fmt.Println("  quit/exit/q    - Exit the program")
	fmt.Println("Any other input is keyed as morse on the beacon.")
	fmt.Println()
}
