// compileinfoprint is imported by the commands for the side effect of
// printing the compileinfo to os.Stderr before flags are parsed.
package compileinfoprint

import "github.com/JennyZadeh/bioc-rnaseq/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
