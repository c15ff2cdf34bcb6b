package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

const (
	environmentVariablePort           = "PORT"
	environmentVariableDatabaseURL    = "DATABASE_URL"
	environmentVariableWordsFile      = "WORDS_FILE"
	environmentVariableLogLevel       = "LOG_LEVEL"
	environmentVariableDebugGame      = "DEBUG_MESSAGES"
	environmentVariableMaxRooms       = "MAX_ROOMS"
	environmentVariableMaxHosts       = "MAX_HOSTS"
	environmentVariableMaxPlayers     = "MAX_PLAYERS"
	environmentVariableGameSeconds    = "GAME_SECONDS"
	environmentVariableTotalRounds    = "TOTAL_ROUNDS"
	environmentVariableTurnsPerPlayer = "TURNS_PER_PLAYER"
	environmentVariableTurnBased      = "TURN_BASED"
	environmentVariableTokenValidSec  = "TOKEN_VALID_SEC"
	environmentVariableChallengeToken = "ACME_CHALLENGE_TOKEN"
	environmentVariableChallengeKey   = "ACME_CHALLENGE_KEY"
)

// mainFlags are the configuration options which can be easily configured at run startup for different environments.
type mainFlags struct {
	port           int
	databaseURL    string
	wordsFile      string
	logLevel       string
	debugGame      bool
	maxRooms       int
	maxHosts       int
	maxPlayers     int
	gameSeconds    int
	totalRounds    int
	turnsPerPlayer int
	turnBased      bool
	tokenValidSec  int
	challengeToken string
	challengeKey   string
}

const (
	defaultPort           = 8000
	defaultMaxRooms       = 32
	defaultMaxHosts       = 16
	defaultMaxPlayers     = 8
	defaultGameSeconds    = 90
	defaultTotalRounds    = 1
	defaultTurnsPerPlayer = 1
	defaultTokenValidSec  = 60 * 60 * 24 // 1 day
)

// usage prints how to run the server to the flagset's output.
func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariablePort,
		environmentVariableDatabaseURL,
		environmentVariableWordsFile,
		environmentVariableLogLevel,
		environmentVariableDebugGame,
		environmentVariableMaxRooms,
		environmentVariableMaxHosts,
		environmentVariableMaxPlayers,
		environmentVariableGameSeconds,
		environmentVariableTotalRounds,
		environmentVariableTurnsPerPlayer,
		environmentVariableTurnBased,
		environmentVariableTokenValidSec,
		environmentVariableChallengeToken,
		environmentVariableChallengeKey,
	}
	fmt.Fprintf(fs.Output(), "Runs the server\n")
	fmt.Fprintf(fs.Output(), "Reads environment variables when possible: [%s]\n", strings.Join(envVars, ","))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.Usage = func() {
		usage(fs) // [lazy evaluation]
	}
	envValue := func(key string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return ""
	}
	envValueInt := func(key string, defaultValue int) int {
		v1 := envValue(key)
		v2, err := strconv.Atoi(v1)
		if err != nil {
			return defaultValue
		}
		return v2
	}
	envPresent := func(key string) bool {
		_, ok := osLookupEnvFunc(key)
		return ok
	}
	fs.IntVar(&m.port, "port", envValueInt(environmentVariablePort, defaultPort), "The TCP port for server http requests.")
	fs.StringVar(&m.databaseURL, "data-source", envValue(environmentVariableDatabaseURL), "The url of the database that stores the points of players.  The scheme selects the database: postgres, sqlite, mongodb, or firestore.  Points are kept in memory if empty.")
	fs.StringVar(&m.wordsFile, "words-file", envValue(environmentVariableWordsFile), "A list of valid lower-case words to add to the words that come with the game.")
	fs.StringVar(&m.logLevel, "log-level", envValue(environmentVariableLogLevel), "The least important level of events to log, such as debug, info, or error.")
	fs.BoolVar(&m.debugGame, "debug-game", envPresent(environmentVariableDebugGame), "Logs message types in the console when messages are passed between components.  The log level is debug unless another level is set.")
	fs.IntVar(&m.maxRooms, "max-rooms", envValueInt(environmentVariableMaxRooms, defaultMaxRooms), "The most rooms the lobby can hold.")
	fs.IntVar(&m.maxHosts, "max-hosts", envValueInt(environmentVariableMaxHosts, defaultMaxHosts), "The most rooms hosted by players that can be listed at the same time.")
	fs.IntVar(&m.maxPlayers, "max-players", envValueInt(environmentVariableMaxPlayers, defaultMaxPlayers), "The most players that can be in a room.")
	fs.IntVar(&m.gameSeconds, "game-seconds", envValueInt(environmentVariableGameSeconds, defaultGameSeconds), "The length of each turn in seconds.")
	fs.IntVar(&m.totalRounds, "total-rounds", envValueInt(environmentVariableTotalRounds, defaultTotalRounds), "The number of rounds in each game.")
	fs.IntVar(&m.turnsPerPlayer, "turns-per-player", envValueInt(environmentVariableTurnsPerPlayer, defaultTurnsPerPlayer), "The number of turns each player takes in a turn-based round.")
	fs.BoolVar(&m.turnBased, "turn-based", envPresent(environmentVariableTurnBased), "Causes players to take turns instead of playing at the same time.")
	fs.IntVar(&m.tokenValidSec, "token-valid-sec", envValueInt(environmentVariableTokenValidSec, defaultTokenValidSec), "The number of seconds that player tokens are valid for.")
	fs.StringVar(&m.challengeToken, "acme-challenge-token", envValue(environmentVariableChallengeToken), "The ACME HTTP-01 Challenge token used to get a certificate.")
	fs.StringVar(&m.challengeKey, "acme-challenge-key", envValue(environmentVariableChallengeKey), "The ACME HTTP-01 Challenge key used to get a certificate.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) (*mainFlags, error) {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programArgs := osArgs[1:]
	var m mainFlags
	fs := m.newFlagSet(osLookupEnvFunc)
	if err := fs.Parse(programArgs); err != nil {
		return nil, err
	}
	return &m, nil
}

// level is the least important level of events to log.
// Debugging games logs debug events if no level is set.
func (m mainFlags) level() string {
	if m.debugGame && len(m.logLevel) == 0 {
		return "debug"
	}
	return m.logLevel
}
