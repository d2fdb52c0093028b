// keymapctl inspects keyboard definition files and replays scripted key
// presses through the scan pipeline on the host.
package main

func main() {
	Execute()
}
