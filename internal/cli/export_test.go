package cli

// Export internal functions for testing.

// RunSplit exports runSplit for testing.
var RunSplit = runSplit

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// NormalizeConfigValue exports normalizeConfigValue for testing.
var NormalizeConfigValue = normalizeConfigValue

// ParseMinDuration exports parseMinDuration for testing.
var ParseMinDuration = parseMinDuration

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// StringSetting exports stringSetting for testing.
var StringSetting = stringSetting

// IntSetting exports intSetting for testing.
var IntSetting = intSetting

// PrintSummary exports printSummary for testing.
var PrintSummary = printSummary
