package main

// Blank imports register every compiled-in module with the core registry.
import (
	_ "github.com/voltmesh/solarbot/internal/gateway"
	_ "github.com/voltmesh/solarbot/modules/agent/prosumer"
	_ "github.com/voltmesh/solarbot/modules/agent/solar"
	_ "github.com/voltmesh/solarbot/modules/analyzer/rooftop"
	_ "github.com/voltmesh/solarbot/modules/channel/telegram"
	_ "github.com/voltmesh/solarbot/modules/network/beckn"
	_ "github.com/voltmesh/solarbot/modules/provider/openai"
	_ "github.com/voltmesh/solarbot/modules/provider/vertex"
	_ "github.com/voltmesh/solarbot/modules/store/sqlite"
)
