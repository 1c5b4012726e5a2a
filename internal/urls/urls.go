package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://cellarly.github.io/cellarctl/

// GettingStarted is the quick start guide for new users to connect
// cellarctl to a cellar server.
const GettingStarted = "https://cellarly.github.io/cellarctl/getting-started/overview/"

// ShareWizardGuide walks through the interactive share wizard,
// covering bottle selection, inventory intake and recipients.
const ShareWizardGuide = "https://cellarly.github.io/cellarctl/guides/share-wizard/"

// ServerSetup covers running a cellar server and making it
// discoverable on the local network via mDNS.
const ServerSetup = "https://cellarly.github.io/cellarctl/server/setup/"

// TroubleshootingGuide provides solutions to common issues with
// connectivity, authentication and discovery.
const TroubleshootingGuide = "https://cellarly.github.io/cellarctl/troubleshooting/"
