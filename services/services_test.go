package services

import "testing"

// Every service resolves its registry ID through the pointer it is
// registered with.
func TestServiceIds(t *testing.T) {
	tests := []struct {
		svc  interface{ Id() string }
		want string
	}{
		{&SqliteService{}, SQLITE_SVC},
		{&RedisService{}, REDIS_SVC},
		{&MinIOService{}, MINIO_SVC},
		{&JWTService{}, JWT_SVC},
		{&AuthMiddleware{}, AUTH_MIDDLEWARE_SVC},
		{&AuthService{}, AUTH_SVC},
		{&ProgressService{}, PROGRESS_SVC},
		{&QuizService{}, QUIZ_SVC},
		{&GameService{}, GAME_SVC},
		{&AIService{}, AI_SVC},
		{&SpeechService{}, SPEECH_SVC},
		{&MediaService{}, MEDIA_SVC},
		{&ImporterService{}, IMPORTER_SVC},
		{&SchedulerService{}, SCHEDULER_SVC},
		{&MonitoringService{}, MONITORING_SVC},
		{&HttpService{}, HTTP_SVC},
	}

	for _, tt := range tests {
		if got := tt.svc.Id(); got != tt.want {
			t.Errorf("Id() = %q, want %q", got, tt.want)
		}
	}
}
