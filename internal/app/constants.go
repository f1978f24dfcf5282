package app

// MinPlayersToStart is the number of occupied seats required to deal a game.
// Centralized so local runs and tests can adjust the rule in one place.
const MinPlayersToStart = 2
