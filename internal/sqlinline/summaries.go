package sqlinline

const QUpsertDailySummary = `--sql b84d75c4-bba0-48d6-8ae7-1fadd9c7fdf9
insert into daily_summaries(
  client_id,
  metric_date,
  ad_spend,
  ad_impressions,
  ad_clicks,
  ad_conversions,
  sessions,
  users,
  pageviews,
  form_fills,
  gbp_views,
  gbp_searches,
  gbp_calls,
  gbp_direction_requests,
  search_clicks,
  search_impressions,
  search_avg_position,
  phone_calls,
  answered_calls,
  first_time_callers,
  total_leads,
  cost_per_lead,
  created_at,
  updated_at
) values (
  $1::uuid, $2::date,
  $3::numeric, $4::int, $5::int, $6::int,
  $7::int, $8::int, $9::int, $10::int,
  $11::int, $12::int, $13::int, $14::int,
  $15::int, $16::int, $17::numeric,
  $18::int, $19::int, $20::int,
  $21::int, $22::numeric,
  now(), now()
)
on conflict (client_id, metric_date) do update set
  ad_spend = excluded.ad_spend,
  ad_impressions = excluded.ad_impressions,
  ad_clicks = excluded.ad_clicks,
  ad_conversions = excluded.ad_conversions,
  sessions = excluded.sessions,
  users = excluded.users,
  pageviews = excluded.pageviews,
  form_fills = excluded.form_fills,
  gbp_views = excluded.gbp_views,
  gbp_searches = excluded.gbp_searches,
  gbp_calls = excluded.gbp_calls,
  gbp_direction_requests = excluded.gbp_direction_requests,
  search_clicks = excluded.search_clicks,
  search_impressions = excluded.search_impressions,
  search_avg_position = excluded.search_avg_position,
  phone_calls = excluded.phone_calls,
  answered_calls = excluded.answered_calls,
  first_time_callers = excluded.first_time_callers,
  total_leads = excluded.total_leads,
  cost_per_lead = excluded.cost_per_lead,
  updated_at = now();
`

const QSelectSummariesByRange = `--sql b72dcbde-210a-4405-9657-233532f93777
select
  client_id,
  metric_date,
  ad_spend,
  ad_impressions,
  ad_clicks,
  ad_conversions,
  sessions,
  users,
  pageviews,
  form_fills,
  gbp_views,
  gbp_searches,
  gbp_calls,
  gbp_direction_requests,
  search_clicks,
  search_impressions,
  search_avg_position,
  phone_calls,
  answered_calls,
  first_time_callers,
  total_leads,
  cost_per_lead,
  created_at,
  updated_at
from daily_summaries
where metric_date between $1::date and $2::date
  and ($3::uuid is null or client_id = $3::uuid)
order by metric_date asc, client_id asc;
`
