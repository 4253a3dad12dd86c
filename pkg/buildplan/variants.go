package buildplan

import "github.com/nuki-esphome/nuki-go/pkg/config"

// Reserved internal memory when radio stack allocations move to PSRAM.
const spiramReserveInternal = "50768"

// Library coordinates.
const (
	libNukiBle        = "I-Connect/NukiBleEsp32"
	libNukiBleVersion = ""
	libNimBLEArduino  = "h2zero/NimBLE-Arduino"
	libNimBLEVersion  = "1.4.2"
	libEspNimbleCpp   = "h2zero/esp-nimble-cpp"
	libEspNimbleVer   = "1.4.2"
	libPreferences    = "Preferences"
)

// suppressedWarnings are silenced on every platform; the vendored BLE
// libraries trip them.
var suppressedWarnings = []string{
	"-Wno-unused-result",
	"-Wno-ignored-qualifiers",
	"-Wno-missing-field-initializers",
	"-Wno-maybe-uninitialized",
	"-Wno-format",
}

func planIDF(p *BuildPlan, caps Capabilities) {
	p.add(KindSDKConfig, "CONFIG_BT_ENABLED", true)
	p.add(KindSDKConfig, "CONFIG_BT_BLUEDROID_ENABLED", false)
	p.add(KindSDKConfig, "CONFIG_BT_NIMBLE_ENABLED", true)
	p.add(KindSDKConfig, "CONFIG_BT_NIMBLE_LOG_LEVEL_NONE", true)
	p.add(KindSDKConfig, "CONFIG_NIMBLE_CPP_LOG_LEVEL", "0")

	if caps.ExternalMemory {
		p.add(KindSDKConfig, "CONFIG_BT_NIMBLE_MEM_ALLOC_MODE_EXTERNAL", true)
		p.add(KindSDKConfig, "CONFIG_SPIRAM_MALLOC_RESERVE_INTERNAL", spiramReserveInternal)
	}

	p.dep(libEspNimbleCpp, libEspNimbleVer)
	p.dep(libNukiBle, libNukiBleVersion)
}

func planArduino(p *BuildPlan, caps Capabilities) {
	// The base profile enables Bluedroid and its log levels; clear them
	// before redefining.
	p.add(KindUnflag, "-DCONFIG_BT_BLUEDROID_ENABLED", false)
	p.add(KindUnflag, "-DCONFIG_BT_NIMBLE_LOG_LEVEL", false)
	p.add(KindUnflag, "-DCONFIG_NIMBLE_CPP_LOG_LEVEL", false)

	p.add(KindDefine, "CONFIG_BT_NIMBLE_ENABLED", "")
	p.add(KindDefine, "CONFIG_BT_NIMBLE_LOG_LEVEL", "0")
	p.add(KindDefine, "CONFIG_NIMBLE_CPP_LOG_LEVEL", "0")

	if caps.ExternalMemory {
		p.add(KindDefine, "CONFIG_BT_NIMBLE_MEM_ALLOC_MODE_EXTERNAL", "")
		p.add(KindDefine, "CONFIG_SPIRAM_MALLOC_RESERVE_INTERNAL", spiramReserveInternal)
	}

	p.dep(libNimBLEArduino, libNimBLEVersion)
	p.dep(libNukiBle, libNukiBleVersion)
	p.dep(libPreferences, "")
}

func planCommon(p *BuildPlan, cfg *config.ResolvedConfig) {
	p.add(KindDefine, "NUKI_NO_WDT_RESET", "")
	p.add(KindDefine, "NUKI_MUTEX_RECURSIVE", "")
	p.add(KindDefine, "NUKI_64BIT_TIME", "")
	if cfg.Bool("alternative_connect_mode") {
		p.add(KindDefine, "NUKI_ALT_CONNECT", "")
	}
	for _, w := range suppressedWarnings {
		p.add(KindBuildFlag, w, true)
	}
}
