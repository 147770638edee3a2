package job

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"tradedoc/storage/postgres"
)

// 生成产物保留天数
const retentionDays = 7

func StartCronJob(tplRepo *postgres.TemplateRepo) {
	c := cron.New()

	// 每天凌晨 3 点清过期的生成台账和产物文件
	_, _ = c.AddFunc("0 3 * * *", func() {
		ctx := context.Background()
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		docs, err := tplRepo.PurgeGeneratedBefore(ctx, cutoff)
		if err != nil {
			fmt.Println("[Cron] Error:", err)
			return
		}
		removed := 0
		for _, d := range docs {
			if d.OutputPath == "" {
				continue
			}
			if err := os.Remove(d.OutputPath); err == nil {
				removed++
			}
		}
		fmt.Printf("[Cron] 清理了 %d 条过期台账, %d 个产物文件\n", len(docs), removed)
	})

	c.Start()
}
