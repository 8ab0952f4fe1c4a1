package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Пакет сравнивает версии документов вида "1.0", "1.2", "1.10".
// Сравнение числовое по компонентам: "1.2" < "1.10".

func parse(label string) ([]int, error) {
	if label == "" {
		return nil, errors.New("пустая метка версии")
	}
	parts := strings.Split(label, ".")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 {
			return nil, errors.Errorf("недопустимая метка версии: %v", label)
		}
		result = append(result, num)
	}
	return result, nil
}

// Compare возвращает -1/0/1 если a меньше/равна/больше b
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := parse(b)
	if err != nil {
		return 0, err
	}
	for i := 0; i < len(av) || i < len(bv); i++ {
		an, bn := 0, 0
		if i < len(av) {
			an = av[i]
		}
		if i < len(bv) {
			bn = bv[i]
		}
		if an < bn {
			return -1, nil
		}
		if an > bn {
			return 1, nil
		}
	}
	return 0, nil
}

// NextMinor увеличивает последний компонент версии: "1.0" -> "1.1", "1.9" -> "1.10"
func NextMinor(label string) (string, error) {
	nums, err := parse(label)
	if err != nil {
		return "", err
	}
	nums[len(nums)-1]++
	parts := make([]string, 0, len(nums))
	for _, num := range nums {
		parts = append(parts, fmt.Sprintf("%d", num))
	}
	return strings.Join(parts, "."), nil
}
