package topology

import "github.com/ritzau/attackgraph/pkg/graph"

// Sample returns the built-in demo scenario: an external attacker working
// toward the SQL database. Used when no topology file is configured.
func Sample() (*Document, *graph.AttackGraph) {
	doc := &Document{
		Name:  "Internet to Database_SQL",
		Entry: "Internet",
		Asset: "Database_SQL",
		Steps: []Step{
			// Entry layer
			{From: "Internet", To: "WebServer", Exploit: "CVE-2023-XYZ (RCE)"},
			{From: "Internet", To: "VPN_Gateway", Exploit: "Weak_Credentials"},
			// Lateral movement
			{From: "WebServer", To: "AppServer", Exploit: "Config_Error"},
			{From: "WebServer", To: "FileServer", Exploit: "SMB_Exploit"},
			{From: "VPN_Gateway", To: "Internal_PC", Exploit: "Phishing_Link"},
			// Depth
			{From: "AppServer", To: "Database_SQL", Exploit: "SQL_Injection"},
			{From: "FileServer", To: "Database_SQL", Exploit: "Stored_Creds"},
			{From: "Internal_PC", To: "Database_SQL", Exploit: "Admin_Access"},
			// Longer decoy route
			{From: "Internal_PC", To: "Printer", Exploit: "Default_Password"},
			{From: "Printer", To: "Database_SQL", Exploit: "Legacy_Connect"},
		},
	}

	g := graph.New()
	for _, step := range doc.Steps {
		// Sample data is known well-formed.
		_ = g.AddStep(step.From, step.To, step.Exploit)
	}
	return doc, g
}
