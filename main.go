package main

import "github.com/BTCX-Investment-Ltd/btcx-digital-currency/cmd"

func main() {
	cmd.Execute()
}
