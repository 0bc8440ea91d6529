// Package cli is the settings client's command tree.
//
// Commands:
//
//	edit        interactive form (default when no command is given)
//	show        print current settings and which providers are connected
//	set         change fields non-interactively; secrets are prompted for
//	disconnect  remove stored provider credentials
//	ping        check that the server is reachable
//
// Every command shares the persistent flags registered by config.BindFlags.
package cli
