package sqlinline

const QListActiveClients = `--sql b01ae617-21cd-4bab-8bcd-6938a92e823a
select id, name, active,
  coalesce(ads_customer_id, ''),
  coalesce(analytics_property_id, ''),
  coalesce(gbp_location_id, ''),
  coalesce(search_console_site, ''),
  coalesce(callrail_account_id, ''),
  created_at, updated_at
from clients
where active = true
order by name asc;
`

const QListClients = `--sql e280fe07-bddf-4606-b414-e3567ef434cf
select id, name, active,
  coalesce(ads_customer_id, ''),
  coalesce(analytics_property_id, ''),
  coalesce(gbp_location_id, ''),
  coalesce(search_console_site, ''),
  coalesce(callrail_account_id, ''),
  created_at, updated_at
from clients
order by name asc;
`

const QSelectClientsByIDs = `--sql 7d15465f-bce3-43c3-a1b6-a8cd83e54824
select id, name, active,
  coalesce(ads_customer_id, ''),
  coalesce(analytics_property_id, ''),
  coalesce(gbp_location_id, ''),
  coalesce(search_console_site, ''),
  coalesce(callrail_account_id, ''),
  created_at, updated_at
from clients
where id = any($1::uuid[])
order by name asc;
`

const QInsertClient = `--sql db6b7994-8d6b-44c7-b40f-f4545bacbd18
insert into clients(
  id, name, active,
  ads_customer_id, analytics_property_id, gbp_location_id,
  search_console_site, callrail_account_id,
  created_at, updated_at
) values (
  gen_random_uuid(), $1::text, true,
  nullif($2::text, ''), nullif($3::text, ''), nullif($4::text, ''),
  nullif($5::text, ''), nullif($6::text, ''),
  now(), now()
) returning id;
`

const QDeactivateClient = `--sql 276bb12a-6539-407c-962f-1b5fe4df842d
update clients
set active = false, updated_at = now()
where id = $1::uuid;
`
