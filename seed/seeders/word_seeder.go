package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wordnest/vocab_api/model"
)

// WordSeeder fills a profile's starter word catalog
type WordSeeder struct {
	db *gorm.DB
}

// NewWordSeeder creates a new word seeder
func NewWordSeeder(db *gorm.DB) *WordSeeder {
	return &WordSeeder{db: db}
}

// SeedWords inserts the starter catalog for the given profile. Terms the
// profile already has are skipped.
func (s *WordSeeder) SeedWords(userID string) error {
	words := s.getStarterWords()

	created := 0
	for _, w := range words {
		var existing model.Word
		err := s.db.Where("user_id = ? AND LOWER(term) = LOWER(?)", userID, w.Term).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Printf("Error checking word %s: %v", w.Term, err)
			return err
		}

		now := time.Now()
		w.ID = uuid.NewString()
		w.UserID = userID
		w.CreatedAt = now
		w.UpdatedAt = now

		if err := s.db.Create(&w).Error; err != nil {
			log.Printf("Error creating word %s: %v", w.Term, err)
			return err
		}
		created++
	}

	log.Printf("Word seeding completed: %d words created", created)
	return nil
}

func intPtr(n int) *int {
	return &n
}

// getStarterWords returns the grade 3-6 starter catalog
func (s *WordSeeder) getStarterWords() []model.Word {
	return []model.Word{
		{Term: "apple", Pronunciation: "/ˈæp.əl/", PartOfSpeech: "noun", Meaning: "사과", ExampleSentence: "I eat an apple every morning.", ExampleSentenceMeaning: "나는 매일 아침 사과를 먹는다.", Grade: 3, Unit: intPtr(1)},
		{Term: "book", Pronunciation: "/bʊk/", PartOfSpeech: "noun", Meaning: "책", ExampleSentence: "This book is very interesting.", ExampleSentenceMeaning: "이 책은 매우 재미있다.", Grade: 3, Unit: intPtr(1)},
		{Term: "cat", Pronunciation: "/kæt/", PartOfSpeech: "noun", Meaning: "고양이", ExampleSentence: "The cat sleeps on the sofa.", ExampleSentenceMeaning: "고양이가 소파에서 잔다.", Grade: 3, Unit: intPtr(1)},
		{Term: "dog", Pronunciation: "/dɔːɡ/", PartOfSpeech: "noun", Meaning: "개/강아지", ExampleSentence: "My dog likes to play in the park.", ExampleSentenceMeaning: "우리 개는 공원에서 노는 것을 좋아한다.", Grade: 3, Unit: intPtr(1)},
		{Term: "run", Pronunciation: "/rʌn/", PartOfSpeech: "verb", Meaning: "달리다/뛰다", ExampleSentence: "I run to school every day.", ExampleSentenceMeaning: "나는 매일 학교까지 달린다.", Grade: 3, Unit: intPtr(2)},
		{Term: "jump", Pronunciation: "/dʒʌmp/", PartOfSpeech: "verb", Meaning: "뛰어오르다/점프하다", ExampleSentence: "The rabbit can jump very high.", ExampleSentenceMeaning: "토끼는 아주 높이 뛸 수 있다.", Grade: 3, Unit: intPtr(2)},
		{Term: "happy", Pronunciation: "/ˈhæp.i/", PartOfSpeech: "adjective", Meaning: "행복한/기쁜", ExampleSentence: "She looks happy today.", ExampleSentenceMeaning: "그녀는 오늘 행복해 보인다.", Grade: 3, Unit: intPtr(2)},
		{Term: "school", Pronunciation: "/skuːl/", PartOfSpeech: "noun", Meaning: "학교", ExampleSentence: "Our school has a big playground.", ExampleSentenceMeaning: "우리 학교에는 큰 운동장이 있다.", Grade: 3, Unit: intPtr(3)},
		{Term: "friend", Pronunciation: "/frend/", PartOfSpeech: "noun", Meaning: "친구", ExampleSentence: "He is my best friend.", ExampleSentenceMeaning: "그는 나의 가장 친한 친구다.", Grade: 3, Unit: intPtr(3)},
		{Term: "water", Pronunciation: "/ˈwɔː.tər/", PartOfSpeech: "noun", Meaning: "물", ExampleSentence: "Please drink more water.", ExampleSentenceMeaning: "물을 더 마시세요.", Grade: 3, Unit: intPtr(3)},

		{Term: "beautiful", Pronunciation: "/ˈbjuː.tɪ.fəl/", PartOfSpeech: "adjective", Meaning: "아름다운/예쁜", ExampleSentence: "The sunset is beautiful.", ExampleSentenceMeaning: "노을이 아름답다.", Grade: 4, Unit: intPtr(1)},
		{Term: "bridge", Pronunciation: "/brɪdʒ/", PartOfSpeech: "noun", Meaning: "다리", ExampleSentence: "We crossed the old bridge.", ExampleSentenceMeaning: "우리는 오래된 다리를 건넜다.", Grade: 4, Unit: intPtr(1)},
		{Term: "weather", Pronunciation: "/ˈweð.ər/", PartOfSpeech: "noun", Meaning: "날씨", ExampleSentence: "The weather is nice today.", ExampleSentenceMeaning: "오늘 날씨가 좋다.", Grade: 4, Unit: intPtr(1)},
		{Term: "remember", Pronunciation: "/rɪˈmem.bər/", PartOfSpeech: "verb", Meaning: "기억하다", ExampleSentence: "I remember your birthday.", ExampleSentenceMeaning: "나는 네 생일을 기억한다.", Grade: 4, Unit: intPtr(2)},
		{Term: "forget", Pronunciation: "/fərˈɡet/", PartOfSpeech: "verb", Meaning: "잊다/잊어버리다", ExampleSentence: "Don't forget your homework.", ExampleSentenceMeaning: "숙제를 잊지 마라.", Grade: 4, Unit: intPtr(2)},
		{Term: "library", Pronunciation: "/ˈlaɪ.brer.i/", PartOfSpeech: "noun", Meaning: "도서관", ExampleSentence: "I borrow books from the library.", ExampleSentenceMeaning: "나는 도서관에서 책을 빌린다.", Grade: 4, Unit: intPtr(2)},
		{Term: "breakfast", Pronunciation: "/ˈbrek.fəst/", PartOfSpeech: "noun", Meaning: "아침 식사/아침밥", ExampleSentence: "I had toast for breakfast.", ExampleSentenceMeaning: "나는 아침으로 토스트를 먹었다.", Grade: 4, Unit: intPtr(3)},
		{Term: "vegetable", Pronunciation: "/ˈvedʒ.tə.bəl/", PartOfSpeech: "noun", Meaning: "채소/야채", ExampleSentence: "Eat your vegetables first.", ExampleSentenceMeaning: "채소를 먼저 먹어라.", Grade: 4, Unit: intPtr(3)},

		{Term: "adventure", Pronunciation: "/ədˈven.tʃər/", PartOfSpeech: "noun", Meaning: "모험", ExampleSentence: "The camping trip was a great adventure.", ExampleSentenceMeaning: "그 캠핑 여행은 멋진 모험이었다.", Grade: 5, Unit: intPtr(1)},
		{Term: "courage", Pronunciation: "/ˈkɜː.rɪdʒ/", PartOfSpeech: "noun", Meaning: "용기", ExampleSentence: "It takes courage to say sorry.", ExampleSentenceMeaning: "미안하다고 말하는 데는 용기가 필요하다.", Grade: 5, Unit: intPtr(1)},
		{Term: "decide", Pronunciation: "/dɪˈsaɪd/", PartOfSpeech: "verb", Meaning: "결정하다/정하다", ExampleSentence: "We decided to take the train.", ExampleSentenceMeaning: "우리는 기차를 타기로 결정했다.", Grade: 5, Unit: intPtr(1)},
		{Term: "promise", Pronunciation: "/ˈprɒm.ɪs/", PartOfSpeech: "verb", Meaning: "약속하다", ExampleSentence: "I promise to call you tonight.", ExampleSentenceMeaning: "오늘 밤에 전화하겠다고 약속할게.", Grade: 5, Unit: intPtr(2)},
		{Term: "curious", Pronunciation: "/ˈkjʊə.ri.əs/", PartOfSpeech: "adjective", Meaning: "호기심이 많은/궁금한", ExampleSentence: "Cats are curious animals.", ExampleSentenceMeaning: "고양이는 호기심이 많은 동물이다.", Grade: 5, Unit: intPtr(2)},
		{Term: "island", Pronunciation: "/ˈaɪ.lənd/", PartOfSpeech: "noun", Meaning: "섬", ExampleSentence: "Jeju is a famous island.", ExampleSentenceMeaning: "제주는 유명한 섬이다.", Grade: 5, Unit: intPtr(2)},
		{Term: "journey", Pronunciation: "/ˈdʒɜː.ni/", PartOfSpeech: "noun", Meaning: "여행/여정", ExampleSentence: "The journey took three hours.", ExampleSentenceMeaning: "그 여정은 세 시간이 걸렸다.", Grade: 5, Unit: intPtr(3)},

		{Term: "environment", Pronunciation: "/ɪnˈvaɪ.rən.mənt/", PartOfSpeech: "noun", Meaning: "환경", ExampleSentence: "We should protect the environment.", ExampleSentenceMeaning: "우리는 환경을 보호해야 한다.", Grade: 6, Unit: intPtr(1)},
		{Term: "improve", Pronunciation: "/ɪmˈpruːv/", PartOfSpeech: "verb", Meaning: "개선하다/향상시키다", ExampleSentence: "Practice will improve your English.", ExampleSentenceMeaning: "연습하면 영어가 향상될 것이다.", Grade: 6, Unit: intPtr(1)},
		{Term: "responsible", Pronunciation: "/rɪˈspɒn.sə.bəl/", PartOfSpeech: "adjective", Meaning: "책임감 있는/책임이 있는", ExampleSentence: "She is responsible for the class pet.", ExampleSentenceMeaning: "그녀는 학급 반려동물을 책임지고 있다.", Grade: 6, Unit: intPtr(1)},
		{Term: "knowledge", Pronunciation: "/ˈnɒl.ɪdʒ/", PartOfSpeech: "noun", Meaning: "지식", ExampleSentence: "Books are full of knowledge.", ExampleSentenceMeaning: "책은 지식으로 가득 차 있다.", Grade: 6, Unit: intPtr(2)},
		{Term: "opportunity", Pronunciation: "/ˌɒp.əˈtʃuː.nə.ti/", PartOfSpeech: "noun", Meaning: "기회", ExampleSentence: "This contest is a good opportunity.", ExampleSentenceMeaning: "이 대회는 좋은 기회다.", Grade: 6, Unit: intPtr(2)},
	}
}
