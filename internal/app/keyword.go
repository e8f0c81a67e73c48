package app

import "strings"

// Supported response languages.
const (
	LangKorean  = "ko"
	LangEnglish = "en"
)

// KeywordRule maps trigger substrings to a canned-answer key. Rules are
// evaluated in order; within a rule, patterns are checked in order. More
// specific triggers (훈련수당, 교통비) sit before broader ones (교통) so the
// match is deterministic.
type KeywordRule struct {
	Patterns []string
	Answer   string
}

// KeywordTable is the language-scoped lookup behind the router's shortcut
// path: trigger phrase in, canned answer out, no model involved.
type KeywordTable struct {
	rules   map[string][]KeywordRule
	answers map[string]map[string]string
}

// NewKeywordTable builds a table from per-language ordered rules and their
// answer texts.
func NewKeywordTable(rules map[string][]KeywordRule, answers map[string]map[string]string) *KeywordTable {
	return &KeywordTable{rules: rules, answers: answers}
}

// Match returns the canned answer for the first rule whose pattern occurs in
// the prompt. Matching is case-insensitive substring containment.
func (t *KeywordTable) Match(prompt, language string) (string, bool) {
	lowered := strings.ToLower(prompt)
	rules, ok := t.rules[language]
	if !ok {
		rules = t.rules[LangKorean]
	}
	answers := t.answers[language]
	if answers == nil {
		answers = t.answers[LangKorean]
	}
	for _, rule := range rules {
		for _, pattern := range rule.Patterns {
			if strings.Contains(lowered, pattern) {
				answer, ok := answers[rule.Answer]
				if !ok {
					continue
				}
				return answer, true
			}
		}
	}
	return "", false
}

// DefaultKeywordTable returns the built-in trigger table for the institution
// FAQ: parking, dining, allowance and location in Korean, a smaller English
// subset.
func DefaultKeywordTable() *KeywordTable {
	rules := map[string][]KeywordRule{
		LangKorean: {
			{Patterns: []string{"훈련수당", "교통비", "수당"}, Answer: "allowance"},
			{Patterns: []string{"주차"}, Answer: "parking"},
			{Patterns: []string{"식사", "점심", "밥"}, Answer: "dining"},
			{Patterns: []string{"위치", "주소", "가는길", "교통"}, Answer: "location"},
		},
		LangEnglish: {
			{Patterns: []string{"allowance"}, Answer: "allowance"},
			{Patterns: []string{"parking"}, Answer: "parking"},
			{Patterns: []string{"lunch", "dining", "restaurant", "food"}, Answer: "dining"},
			{Patterns: []string{"location", "address"}, Answer: "parking"},
		},
	}
	answers := map[string]map[string]string{
		LangKorean:  koreanAnswers,
		LangEnglish: englishAnswers,
	}
	return NewKeywordTable(rules, answers)
}

var koreanAnswers = map[string]string{
	"parking": `## 분당융합기술교육원 주차 안내

1. **분당구청 주차장** - 1시간 무료, 초과 시 30분당 400원 (평일 8시~19시)
2. **서현역 환승공영주차장** - 30분 400원, 1시간 1,000원 (24시간)
3. **호텔스카이파크 센트럴서울판교** - 평일 4,900원, 휴일 4,400원
4. **황새울공원 주차장** - 경기 성남시 분당구 황새울로 287

**가장 가까운 주차**: 분당구청 주차장 (1시간 무료)`,
	"dining": `## 분당융합기술교육원 식사 안내

### 학내 구내식당
- 분당우체국 구내식당: 6,500원 / 분당세무서: 6,500원 / AK 구내식당: 6,000원

### 학교 시설
- 1층 도시락 섭취 공간 운영 (냉장고, 전자렌지, 정수기 제공)

**점심시간**: 12:00~13:00 (±30분 조정 가능)`,
	"allowance": `## 국민취업지원제도 지원금 안내

### 훈련수당
- 일반: 1일 3,300원 (월 6만6천원 한도)
- 취약계층: 1일 1만원 (월 20만원 한도)

### 교통비
- 1일 2,500원 (월 5만원 한도)

### 지급 조건
- 월 출석률 80% 이상, 다음달 중순경 개인 계좌로 입금`,
	"location": `## 분당융합기술교육원 위치 안내

- **주소**: 경기 성남시 분당구 서현동
- **전화**: 031-696-8803
- **대중교통**: 서현역 2번 출구 도보 15분
- **건물**: 2층 도서관·행정실, 1층 강의실·도시락 섭취 공간`,
}

var englishAnswers = map[string]string{
	"parking": `## Bundang Polytechnic Parking

1. **Bundang District Office Parking** - 1 hour free, 400 won per 30 min after
2. **Seohyeon Station Transfer Parking** - 400 won per 30 min, open 24 hours
3. **Hwangsaeul Park Parking** - 287, Hwangsaeul-ro, Bundang-gu

**Location**: Seohyeon-dong, Bundang-gu, Seongnam-si`,
	"dining": `## Bundang Polytechnic Dining

- Bundang Post Office cafeteria: 6,500 won / Tax Office: 6,500 won / AK: 6,000 won
- Lunch area on floor 1 (refrigerator, microwave, water purifier)

**Lunch Time**: 12:00 PM - 1:00 PM`,
	"allowance": `## Training Allowance

- General: 3,300 won/day (max 66,000 won/month)
- Low-income: 10,000 won/day (max 200,000 won/month)
- Transportation: 2,500 won/day (max 50,000 won/month)
- Requires 80%+ monthly attendance; paid mid-next month`,
}
