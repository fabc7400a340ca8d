// olapd serves OLAP cubes to XMLA clients.
package main

import "github.com/olapd/olapd/pkg/cli"

func main() {
	cli.Execute()
}
