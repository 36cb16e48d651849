package shared

const (
	UserID = "user_id"

	QuizTypeMultipleChoice = "multiple_choice"
	QuizTypeTyped          = "typed"

	GameWordMatch      = "word_match"
	GameTypingPractice = "typing_practice"
	GameSpeedQuiz      = "speed_quiz"
	GameWordShooter    = "word_shooter"
	GameWordBomb       = "word_bomb"
	GameZombieDefense  = "zombie_defense"
	GameTimedLink      = "timed_link"

	// MeaningDelimiter separates alternative acceptable answers inside a
	// single meaning string ("cold/chilly").
	MeaningDelimiter = "/"
)
