package helper

import "fmt"

func PrintHelp() {
	fmt.Print(`Usage:
  newsticker COMMAND [OPTIONS]

Commands:
   run             run tickers and the control server (--url | --feed-name | --all)
                   [--animate] [--show-description] [--on-transport-error retain|error] [--archive]
   watch           show a ticker in the terminal (--url | --feed-name) [--animate] [--show-description]
   add             register a named feed (--name, --url) [--check]
   import          register feeds from a YAML file (--file)
   list            list registered feeds [--num N]
   delete          delete a registered feed (--name)
   articles        show archived headlines (--feed-name, --num)
   status          show running tickers
   pause           pause a running ticker [--name NAME]
   resume          resume a paused ticker [--name NAME]
   stop            stop a running ticker [--name NAME]
   help            show this help
`)
}
